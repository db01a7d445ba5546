package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands. Flags override the
// configuration file.
type Globals struct {
	Config    string `help:"Configuration file (YAML)." env:"CATEGORIZER_CONFIG" type:"path"`
	LogLevel  string `help:"Diagnostics level: debug, info, warn or error." name:"log-level"`
	Telemetry bool   `help:"Show timing telemetry for operations."`

	Rules             string `help:"Rule sheet (.csv, .tsv or .xlsx), defaults to rules.file of the configuration." short:"r" type:"path"`
	Sheet             string `help:"Worksheet of Excel rule files (first sheet if empty)."`
	PayeeColumn       string `help:"Rule sheet column holding the payee." name:"payee-column"`
	DescriptionColumn string `help:"Rule sheet column holding the description." name:"description-column"`
	SourceColumn      string `help:"Rule sheet column holding the source account." name:"source-column"`
	DestinationColumn string `help:"Rule sheet column holding the destination account." name:"destination-column"`
}

type Commands struct {
	Globals

	Check      CheckCmd      `cmd:"" help:"Build and validate a rule sheet."`
	Match      MatchCmd      `cmd:"" help:"Find the accounts of a single transaction."`
	Categorize CategorizeCmd `cmd:"" help:"Assign accounts to every transaction of a CSV file."`
	Dump       DumpCmd       `cmd:"" help:"Print the compiled rule table."`
	Serve      ServeCmd      `cmd:"" help:"Start a lookup server."`
}

func buildInfo() (version, commitSHA string) {
	version = Version
	if version == "" {
		version = "dev"
	}
	commitSHA = CommitSHA
	if commitSHA == "" {
		commitSHA = "local"
	}
	return version, commitSHA
}

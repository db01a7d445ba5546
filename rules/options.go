package rules

// Default column labels of a rule sheet.
const (
	DefaultPayeeColumn              = "payee"
	DefaultDescriptionColumn        = "description"
	DefaultSourceAccountColumn      = "account-source"
	DefaultDestinationAccountColumn = "account-destination"
)

// ColumnMap maps the logical rule fields to the column labels of a sheet.
type ColumnMap struct {
	Payee              string
	Description        string
	SourceAccount      string
	DestinationAccount string
}

// DefaultColumns returns the identity mapping.
func DefaultColumns() ColumnMap {
	return ColumnMap{
		Payee:              DefaultPayeeColumn,
		Description:        DefaultDescriptionColumn,
		SourceAccount:      DefaultSourceAccountColumn,
		DestinationAccount: DefaultDestinationAccountColumn,
	}
}

// withDefaults fills unset labels with their defaults.
func (c ColumnMap) withDefaults() ColumnMap {
	d := DefaultColumns()
	if c.Payee == "" {
		c.Payee = d.Payee
	}
	if c.Description == "" {
		c.Description = d.Description
	}
	if c.SourceAccount == "" {
		c.SourceAccount = d.SourceAccount
	}
	if c.DestinationAccount == "" {
		c.DestinationAccount = d.DestinationAccount
	}
	return c
}

// Labels returns the four column labels in field order.
func (c ColumnMap) Labels() []string {
	return []string{c.Payee, c.Description, c.SourceAccount, c.DestinationAccount}
}

type settings struct {
	columns ColumnMap
	diag    Diagnostics
}

// Option configures Build, Load and NewResolver.
type Option func(*settings)

// WithColumns sets the column labels used to read rule rows. Unset labels
// keep their defaults.
func WithColumns(columns ColumnMap) Option {
	return func(s *settings) {
		s.columns = columns.withDefaults()
	}
}

// WithDiagnostics routes advisory messages to d. A nil d discards them.
func WithDiagnostics(d Diagnostics) Option {
	return func(s *settings) {
		if d == nil {
			d = NopDiagnostics
		}
		s.diag = d
	}
}

func newSettings(opts []Option) *settings {
	s := &settings{
		columns: DefaultColumns(),
		diag:    NopDiagnostics,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

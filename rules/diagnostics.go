package rules

// Diagnostics receives advisory messages from the builder and resolver.
// It is purely observational: results never depend on it.
//
// *log.Logger from github.com/charmbracelet/log satisfies this interface.
type Diagnostics interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// NopDiagnostics drops every message.
var NopDiagnostics Diagnostics = nopDiagnostics{}

type nopDiagnostics struct{}

func (nopDiagnostics) Debugf(string, ...any) {}
func (nopDiagnostics) Infof(string, ...any)  {}
func (nopDiagnostics) Warnf(string, ...any)  {}

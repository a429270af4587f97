package spreadsheet

import (
	"context"

	"guiagent/internal/application/port/output"
)

var _ output.SpreadsheetDriverPort = (*NoopDriver)(nil)

// NoopDriver is the reference SpreadsheetDriverPort. SetCellValues'
// backing spreadsheet application is an external collaborator
// only sketches; this implementation records the call for inspection
// instead of driving a real spreadsheet. The values map it receives is
// the one internal/parser built from the call's dict literal.
type NoopDriver struct {
	Calls []Call
}

type Call struct {
	App, Sheet string
	Values     map[string]any
}

func NewNoopDriver() *NoopDriver {
	return &NoopDriver{}
}

func (d *NoopDriver) SetCellValues(ctx context.Context, app, sheet string, values map[string]any) error {
	d.Calls = append(d.Calls, Call{App: app, Sheet: sheet, Values: values})
	return nil
}

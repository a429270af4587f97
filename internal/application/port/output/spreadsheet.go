package output

import "context"

// SpreadsheetDriverPort is the external collaborator SetCellValues
// delegates to. A real spreadsheet application sits behind it; this
// module binds it to a single reference/no-op implementation (see
// internal/infrastructure/spreadsheet).
type SpreadsheetDriverPort interface {
	SetCellValues(ctx context.Context, app, sheet string, values map[string]any) error
}

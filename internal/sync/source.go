package sync

import "context"

// RowSource fetches a rectangular cell range from an external spreadsheet.
// Rows may be sparse: trailing empty cells are not guaranteed to be present.
type RowSource interface {
	FetchRows(ctx context.Context, spreadsheetID, readRange string) ([][]string, error)
}

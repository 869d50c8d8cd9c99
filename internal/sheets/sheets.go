package sheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Source reads cell ranges from Google Sheets using a service account.
type Source struct {
	service *sheets.Service
}

func NewSource(ctx context.Context, keyFilePath string) (*Source, error) {
	keyBytes, err := os.ReadFile(keyFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account key: %w", err)
	}

	conf, err := google.JWTConfigFromJSON(keyBytes, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	return &Source{service: service}, nil
}

// FetchRows reads an A1-notation range and flattens every cell to a string.
// Short rows come back short; callers must tolerate missing trailing cells.
func (s *Source) FetchRows(ctx context.Context, spreadsheetID, readRange string) ([][]string, error) {
	resp, err := s.service.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch range %q: %w", readRange, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, values := range resp.Values {
		cells := make([]string, len(values))
		for i, value := range values {
			cells[i] = fmt.Sprint(value)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

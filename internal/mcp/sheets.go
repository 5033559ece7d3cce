package mcp

import (
	"context"
	"fmt"

	"github.com/honeycarbs/hh-vacancies/internal/mcp/tools"
	sheetsclient "github.com/honeycarbs/hh-vacancies/pkg/sheets"
)

type sheetsWriter interface {
	AppendValues(ctx context.Context, spreadsheetID, rng string, values [][]any) (int, error)
	UpdateValues(ctx context.Context, spreadsheetID, rng string, values [][]any) (int, error)
	ClearValues(ctx context.Context, spreadsheetID, rng string) error
}

var _ sheetsWriter = (*sheetsclient.Client)(nil)

// sheetsClientAdapter writes tool tables through the Sheets values API.
// Replace mode clears the tab and writes the header; append mode adds data rows only.
type sheetsClientAdapter struct {
	client sheetsWriter
}

func (a *sheetsClientAdapter) WriteTable(ctx context.Context, table tools.SheetTable) (int, error) {
	if a == nil || a.client == nil {
		return 0, fmt.Errorf("sheets: client not configured")
	}

	values := convertRowsToValues(table.Rows)

	if table.Append {
		if len(values) == 0 {
			return 0, nil
		}
		return a.client.AppendValues(ctx, table.SpreadsheetID, sheetsclient.A1Range(table.Tab, "A1"), values)
	}

	if err := a.client.ClearValues(ctx, table.SpreadsheetID, sheetsclient.A1Range(table.Tab, "")); err != nil {
		return 0, err
	}

	header := make([]any, len(table.Header))
	for i, h := range table.Header {
		header[i] = h
	}

	written, err := a.client.UpdateValues(ctx, table.SpreadsheetID, sheetsclient.A1Range(table.Tab, "A1"), append([][]any{header}, values...))
	if err != nil {
		return 0, err
	}
	return max(written-1, 0), nil
}

func convertRowsToValues(rows [][]string) [][]any {
	values := make([][]any, len(rows))
	for i, row := range rows {
		values[i] = make([]any, len(row))
		for j, cell := range row {
			values[i][j] = cell
		}
	}
	return values
}

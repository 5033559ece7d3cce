package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/hh-vacancies/pkg/logging"
)

const (
	datasetVacancies = "vacancies"
	datasetCompanies = "companies"
)

// SheetTable is a header plus rows written to one spreadsheet tab
type SheetTable struct {
	SpreadsheetID string
	Tab           string
	Header        []string
	Rows          [][]string
	Append        bool
}

// SheetsClient writes tables to Google Sheets
type SheetsClient interface {
	WriteTable(ctx context.Context, table SheetTable) (int, error)
}

// SheetsExportParams defines the arguments for the sheets_export tool
type SheetsExportParams struct {
	Dataset string `json:"dataset,omitempty" jsonschema:"What to export: vacancies (default) or companies"`
	Append  bool   `json:"append,omitempty" jsonschema:"Append below existing rows instead of replacing the tab"`
	Sheet   struct {
		SpreadsheetID string `json:"spreadsheet_id" jsonschema:"Google Sheets document ID"`
		Tab           string `json:"tab,omitempty" jsonschema:"Tab name, defaults to the dataset name"`
	} `json:"sheet" jsonschema:"Destination sheet information"`
}

// SheetsExportResult describes the summary returned after export
type SheetsExportResult struct {
	SpreadsheetID string    `json:"spreadsheet_id" jsonschema:"Target spreadsheet ID"`
	Tab           string    `json:"tab" jsonschema:"Target tab name"`
	Dataset       string    `json:"dataset"`
	WrittenRows   int       `json:"written_rows" jsonschema:"How many data rows were written"`
	Mode          string    `json:"mode" jsonschema:"append or replace"`
	CompletedAt   time.Time `json:"completed_at" jsonschema:"Timestamp when export finished"`
}

type sheetsExportTool struct {
	queries QueryService
	sheets  SheetsClient
	logger  *logging.Logger
	now     func() time.Time
}

// WithSheetsExport registers the sheets_export tool
func WithSheetsExport(queries QueryService, sheets SheetsClient) Option {
	return func(reg *registry) {
		t := sheetsExportTool{queries: queries, sheets: sheets, logger: reg.logger.Named("sheets_export"), now: time.Now}
		addTool(reg, &sdkmcp.Tool{
			Name:        "sheets_export",
			Description: "Export stored vacancies or per-company counts to a Google Sheets tab",
		}, t.handle)
	}
}

func (t sheetsExportTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params SheetsExportParams) (*sdkmcp.CallToolResult, any, error) {
	if t.sheets == nil {
		return nil, nil, fmt.Errorf("sheets export: Google Sheets client not configured (GOOGLE_SHEETS_CREDENTIALS_PATH not set)")
	}
	if strings.TrimSpace(params.Sheet.SpreadsheetID) == "" {
		return nil, nil, fmt.Errorf("sheets export: sheet.spreadsheet_id is required")
	}

	dataset := params.Dataset
	if dataset == "" {
		dataset = datasetVacancies
	}

	table, err := t.table(ctx, dataset)
	if err != nil {
		t.logger.Error("building export table failed", "dataset", dataset, "err", err)
		return nil, nil, err
	}

	table.SpreadsheetID = params.Sheet.SpreadsheetID
	table.Tab = params.Sheet.Tab
	if table.Tab == "" {
		table.Tab = dataset
	}
	table.Append = params.Append

	written, err := t.sheets.WriteTable(ctx, table)
	if err != nil {
		t.logger.Error("sheets write failed", "spreadsheet_id", table.SpreadsheetID, "tab", table.Tab, "err", err)
		return nil, nil, fmt.Errorf("sheets export: %w", err)
	}

	result := SheetsExportResult{
		SpreadsheetID: table.SpreadsheetID,
		Tab:           table.Tab,
		Dataset:       dataset,
		WrittenRows:   written,
		Mode:          "replace",
		CompletedAt:   t.now().UTC(),
	}
	if table.Append {
		result.Mode = "append"
	}

	t.logger.Info("sheets export completed", "dataset", dataset, "rows", written, "tab", table.Tab)

	msg := fmt.Sprintf("[sheets_export] wrote %d %s row(s) to %s (%s)", written, dataset, table.Tab, result.Mode)
	return textResult(msg), result, nil
}

func (t sheetsExportTool) table(ctx context.Context, dataset string) (SheetTable, error) {
	switch dataset {
	case datasetVacancies:
		rows, err := t.queries.AllVacancies(ctx)
		if err != nil {
			return SheetTable{}, fmt.Errorf("sheets export: list vacancies: %w", err)
		}
		out := make([][]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, []string{strconv.FormatInt(r.ID, 10), r.Title, strconv.FormatInt(r.EmployerID, 10)})
		}
		return SheetTable{Header: []string{"id", "title", "employer_id"}, Rows: out}, nil

	case datasetCompanies:
		rows, err := t.queries.CompaniesWithVacancyCounts(ctx)
		if err != nil {
			return SheetTable{}, fmt.Errorf("sheets export: companies: %w", err)
		}
		out := make([][]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, []string{r.Company, strconv.FormatInt(r.Vacancies, 10)})
		}
		return SheetTable{Header: []string{"company", "vacancies"}, Rows: out}, nil

	default:
		return SheetTable{}, fmt.Errorf("sheets export: unknown dataset %q (want %s or %s)", dataset, datasetVacancies, datasetCompanies)
	}
}

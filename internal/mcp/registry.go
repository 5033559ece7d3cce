package mcp

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/hh-vacancies/internal/mcp/tools"
	"github.com/honeycarbs/hh-vacancies/pkg/logging"
)

type ToolRegistry struct {
	logger *logging.Logger
}

func NewToolRegistry(logger *logging.Logger) *ToolRegistry {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ToolRegistry{logger: logger}
}

// RegisterAll installs the query tools and, when Sheets is configured, sheets_export
func (r *ToolRegistry) RegisterAll(server *sdkmcp.Server, res *Resources) []string {
	opts := []tools.Option{tools.WithQueryTools(res.Analytics)}
	if res.SheetsClient != nil {
		opts = append(opts, tools.WithSheetsExport(res.Analytics, res.SheetsClient))
	} else {
		r.logger.Warn("sheets_export disabled", "reason", "GOOGLE_SHEETS_CREDENTIALS_PATH not set")
	}

	names := tools.Register(server, r.logger, opts...)
	r.logger.Info("MCP tools registered", "tools", names)
	return names
}

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"tds-export/db"
	"tds-export/exporter"
	"tds-export/models"
	"tds-export/scraper"
	"tds-export/services"
	"tds-export/utils"
)

// Runner drives one export: sequential per-sheet fetch, clean, write,
// annotate. The first error aborts the remaining sheets; files already
// written stay on disk.
type Runner struct {
	Fetch  Fetcher
	Defs   func(url string) map[string]string
	Write  func(path string, table *models.Table, defs map[string]string) error
	Logger *utils.Logger

	// Optional UI callbacks for the status line and the log panel.
	Status func(msg string)
	Log    func(msg string)
}

// Run exports every sheet into outDir, creating it if absent.
func (r *Runner) Run(ctx context.Context, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output folder: %w", err)
	}

	for _, sheet := range Sheets() {
		r.status("Exporting " + sheet.Name + "…")

		table, err := r.buildTable(ctx, sheet)
		if err != nil {
			return fmt.Errorf("%s: %w", sheet.Name, err)
		}

		defs := r.Defs(MappingURLs[sheet.Name])
		path := filepath.Join(outDir, sheet.Name+".xlsx")
		if err := r.Write(path, table, defs); err != nil {
			return fmt.Errorf("%s: %w", sheet.Name, err)
		}

		r.Logger.Info("[pipeline] wrote %s (%d rows, %d columns)", path, len(table.Rows), len(table.Columns))
		r.log("✓ " + sheet.Name)
	}
	return nil
}

func (r *Runner) buildTable(ctx context.Context, sheet Sheet) (*models.Table, error) {
	var table *models.Table
	if sheet.Build != nil {
		built, err := sheet.Build(ctx, r.Fetch)
		if err != nil {
			return nil, err
		}
		table = built
	} else {
		raw, err := r.Fetch.FetchTable(ctx, sheet.Query)
		if err != nil {
			return nil, err
		}
		table = services.Clean(raw, Omissions)
	}
	if sheet.Post != nil {
		table = sheet.Post(table)
	}
	return table, nil
}

func (r *Runner) status(msg string) {
	if r.Status != nil {
		r.Status(msg)
	}
}

func (r *Runner) log(msg string) {
	if r.Log != nil {
		r.Log(msg)
	}
}

// Export opens a connection, runs every sheet against it, and closes it.
// This is the whole pipeline behind the form's run button.
func Export(ctx context.Context, server, database, outDir string, logger *utils.Logger, status, logLine func(string)) error {
	if status != nil {
		status("Connecting to " + database + "…")
	}
	client, err := db.Connect(ctx, server, database, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	runner := &Runner{
		Fetch:  client,
		Defs:   scraper.NewClient(logger).FieldDefinitions,
		Write:  exporter.WriteSheet,
		Logger: logger,
		Status: status,
		Log:    logLine,
	}
	return runner.Run(ctx, outDir)
}

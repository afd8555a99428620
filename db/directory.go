package db

import (
	"context"
	"database/sql"
	"fmt"

	"tds-export/utils"
)

// DatabaseEntry is one row of the company directory.
type DatabaseEntry struct {
	Description  string
	DatabaseName string
	Server       string
}

const searchQuery = `
	SELECT Description, DatabaseName, Server
	FROM dbo.CompanyDatabase
	WHERE DatabaseName LIKE @term
	ORDER BY Description`

// SearchDatabases looks up company databases whose name contains term in
// the directory database. A fresh connection is opened and closed per
// search.
func SearchDatabases(ctx context.Context, server, database, term string, logger *utils.Logger) ([]DatabaseEntry, error) {
	client, err := Connect(ctx, server, database, logger)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	table, err := client.FetchTable(ctx, searchQuery, sql.Named("term", "%"+term+"%"))
	if err != nil {
		return nil, fmt.Errorf("search directory: %w", err)
	}

	entries := make([]DatabaseEntry, 0, len(table.Rows))
	for _, row := range table.Rows {
		entries = append(entries, DatabaseEntry{
			Description:  asString(row[0]),
			DatabaseName: asString(row[1]),
			Server:       asString(row[2]),
		})
	}
	return entries, nil
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

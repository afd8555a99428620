package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/microsoft/go-mssqldb/azuread"

	"tds-export/models"
	"tds-export/utils"
)

// Client wraps the single connection used by one export run. It is opened
// at the start of a run and closed at the end; there is no pooling across
// runs.
type Client struct {
	db     *sql.DB
	logger *utils.Logger
}

// Connect opens an encrypted connection to a SQL Server instance using
// Active Directory interactive authentication and verifies it with a ping.
func Connect(ctx context.Context, server, database string, logger *utils.Logger) (*Client, error) {
	dsn := fmt.Sprintf(
		"server=%s;database=%s;fedauth=ActiveDirectoryInteractive;encrypt=true;TrustServerCertificate=true",
		server, database,
	)
	conn, err := sql.Open(azuread.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open connection to %s: %w", server, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connect to %s on %s: %w", database, server, err)
	}
	logger.Info("[db] connected to %s on %s", database, server)
	return &Client{db: conn, logger: logger}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

// FetchTable runs a read-only query and materializes the whole result,
// preserving column order and row order. Byte slices are normalized to
// strings; everything else keeps its driver type.
func (c *Client) FetchTable(ctx context.Context, query string, args ...any) (*models.Table, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	table := &models.Table{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(table.Rows)+1, err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		table.Rows = append(table.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	c.logger.Debug("[db] fetched %d rows, %d columns", len(table.Rows), len(columns))
	return table, nil
}

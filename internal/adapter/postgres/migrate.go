package postgres

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/shoplist-backend/migrations"
)

// NewMigrator returns a goose provider over the embedded schema migrations.
func NewMigrator(db *sql.DB) (*goose.Provider, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return nil, fmt.Errorf("goose new provider: %w", err)
	}
	return provider, nil
}

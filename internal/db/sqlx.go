// internal/db/sqlx.go
package db

import (
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// NewSQLxDB opens a parallel database/sql handle used by the report
// aggregate queries. The repositories themselves run on pgxpool.
func NewSQLxDB(databaseURL string) (*sqlx.DB, error) {
	sqlxDB, err := sqlx.Connect("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlx DB: %w", err)
	}

	sqlxDB.SetMaxOpenConns(10)
	sqlxDB.SetMaxIdleConns(5)
	sqlxDB.SetConnMaxLifetime(time.Hour)

	log.Println("[DB] ✅ sqlx handle ready")
	return sqlxDB, nil
}

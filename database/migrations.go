package database

import (
	"database/sql"
	"log"
)

// RunMigrations ensures all required tables exist
// Note: In production, use a proper migration tool
func RunMigrations(db *sql.DB) error {
	log.Println("Checking database schema...")

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bookings (
			id                  TEXT PRIMARY KEY,
			passenger_name      TEXT NOT NULL,
			passenger_email     TEXT NOT NULL,
			destination         TEXT NOT NULL,
			amount              NUMERIC(10,2) NOT NULL,
			currency            TEXT NOT NULL,
			confirmation_status TEXT NOT NULL,
			created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}

	log.Println("Database schema is up to date")
	return nil
}

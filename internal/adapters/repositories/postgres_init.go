package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Initialize the postgres schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createOfficesQuery := `
	CREATE TABLE IF NOT EXISTS offices (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		country TEXT NOT NULL,
		country_code TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createUsersQuery := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		full_name TEXT NOT NULL,
		role TEXT NOT NULL,
		office_id TEXT REFERENCES offices(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createParcelsQuery := `
	CREATE TABLE IF NOT EXISTS parcels (
		id TEXT PRIMARY KEY,
		sender_name TEXT NOT NULL,
		sender_phone TEXT NOT NULL DEFAULT '',
		receiver_name TEXT NOT NULL,
		receiver_phone TEXT NOT NULL DEFAULT '',
		destination TEXT NOT NULL,
		status TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		is_paid BOOLEAN NOT NULL DEFAULT FALSE,
		origin_office_id TEXT NOT NULL REFERENCES offices(id),
		destination_office_id TEXT NOT NULL REFERENCES offices(id),
		paid_at_office_id TEXT REFERENCES offices(id),
		created_by_user_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	);
	`

	// Append-only by convention: the adapter exposes no UPDATE or DELETE
	// for this table.
	createHistoryQuery := `
	CREATE TABLE IF NOT EXISTS parcel_status_history (
		id TEXT PRIMARY KEY,
		parcel_id TEXT NOT NULL REFERENCES parcels(id),
		old_status TEXT,
		new_status TEXT NOT NULL,
		changed_by_user_id TEXT NOT NULL DEFAULT '',
		office_id TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		changed_at TIMESTAMPTZ NOT NULL
	);
	`

	createMessagesQuery := `
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		from_office_id TEXT NOT NULL REFERENCES offices(id),
		to_office_id TEXT NOT NULL REFERENCES offices(id),
		from_user_id TEXT NOT NULL REFERENCES users(id),
		subject TEXT NOT NULL,
		content TEXT NOT NULL,
		related_parcel_id TEXT REFERENCES parcels(id),
		read_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	`

	createIndexQueries := `
	CREATE INDEX IF NOT EXISTS idx_parcels_origin_office ON parcels(origin_office_id);
	CREATE INDEX IF NOT EXISTS idx_parcels_destination_office ON parcels(destination_office_id);
	CREATE INDEX IF NOT EXISTS idx_history_parcel_changed_at ON parcel_status_history(parcel_id, changed_at DESC);
	CREATE INDEX IF NOT EXISTS idx_messages_to_office_read ON messages(to_office_id, read_at);
	CREATE INDEX IF NOT EXISTS idx_messages_from_office ON messages(from_office_id);
	`

	statements := []string{
		createOfficesQuery,
		createUsersQuery,
		createParcelsQuery,
		createHistoryQuery,
		createMessagesQuery,
		createIndexQueries,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type OfficeSeed struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
}

// Populate the office directory from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed offices: read %q: %w", jsonPath, err)
	}

	var data []OfficeSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed offices: parse json: %w", err)
	}

	rows := make([]OfficeSeed, 0, len(data))
	for i, item := range data {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return fmt.Errorf("seed offices: item at index %d: name cannot be empty", i+1)
		}
		if strings.TrimSpace(item.Country) == "" {
			return fmt.Errorf("seed offices: item at index %d: country cannot be empty", i+1)
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.Name = name
		rows = append(rows, item)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed offices: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO offices (id, name, country, country_code, address, phone)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		country = EXCLUDED.country,
		country_code = EXCLUDED.country_code,
		address = EXCLUDED.address,
		phone = EXCLUDED.phone;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed offices: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range rows {
		if _, err := stmt.Exec(o.ID, o.Name, o.Country, o.CountryCode, o.Address, o.Phone); err != nil {
			return fmt.Errorf("seed offices: insert office %q: %w", o.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed offices: commit tx: %w", err)
	}

	return nil
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parcel-tracking-service/internal/domain"
	"parcel-tracking-service/internal/platform/obs"
)

// Postgres-backed implementation of the OfficeRepository port. Offices are
// read-only from the service's perspective; rows come from seeding.
type PostgresOfficeRepository struct{ DB *sql.DB }

func NewPostgresOfficeRepository(db *sql.DB) *PostgresOfficeRepository {
	return &PostgresOfficeRepository{DB: db}
}

func (s *PostgresOfficeRepository) List(ctx context.Context) (_ []*domain.Office, err error) {
	defer obs.Time(ctx, "offices.List")(&err)

	if s.DB == nil {
		return nil, errors.New("office repository: DB is nil")
	}

	query := `
	SELECT id, name, country, country_code, address, phone, created_at
	FROM offices
	ORDER BY name;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list offices: query offices table: %w", err)
	}
	defer rows.Close()

	offices := make([]*domain.Office, 0, 16)
	for rows.Next() {
		var o domain.Office
		err := rows.Scan(&o.ID, &o.Name, &o.Country, &o.CountryCode, &o.Address, &o.Phone, &o.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("list offices: scan row: %w", err)
		}
		offices = append(offices, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list offices: row iteration: %w", err)
	}

	return offices, nil
}

func (s *PostgresOfficeRepository) ByID(ctx context.Context, id string) (_ *domain.Office, err error) {
	defer obs.Time(ctx, "offices.ByID")(&err)

	if s.DB == nil {
		return nil, errors.New("office repository: DB is nil")
	}

	query := `
	SELECT id, name, country, country_code, address, phone, created_at
	FROM offices
	WHERE id = $1;
	`
	var o domain.Office
	err = s.DB.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.Name, &o.Country, &o.CountryCode, &o.Address, &o.Phone, &o.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "office", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get office: scan row: %w", err)
	}

	return &o, nil
}

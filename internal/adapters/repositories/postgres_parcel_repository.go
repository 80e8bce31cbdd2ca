package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parcel-tracking-service/internal/domain"
	"parcel-tracking-service/internal/platform/obs"
)

// Postgres-backed implementation of the ParcelRepository port.
type PostgresParcelRepository struct{ DB *sql.DB }

func NewPostgresParcelRepository(db *sql.DB) *PostgresParcelRepository {
	return &PostgresParcelRepository{DB: db}
}

const parcelColumns = `
	id,
	sender_name,
	sender_phone,
	receiver_name,
	receiver_phone,
	destination,
	status,
	price,
	is_paid,
	origin_office_id,
	destination_office_id,
	paid_at_office_id,
	created_by_user_id,
	created_at
`

func (s *PostgresParcelRepository) Create(ctx context.Context, p *domain.Parcel) (err error) {
	defer obs.Time(ctx, "parcels.Create")(&err)

	if s.DB == nil {
		return errors.New("parcel repository: DB is nil")
	}

	query := `
	INSERT INTO parcels (` + parcelColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = s.DB.ExecContext(ctx, query,
		p.ID,
		p.SenderName,
		p.SenderPhone,
		p.ReceiverName,
		p.ReceiverPhone,
		p.Destination,
		p.Status,
		p.Price,
		p.IsPaid,
		p.OriginOfficeID,
		p.DestinationOfficeID,
		p.PaidAtOfficeID,
		p.CreatedByUserID,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create parcel: insert row: %w", err)
	}

	return nil
}

func (s *PostgresParcelRepository) Get(ctx context.Context, id string) (_ *domain.Parcel, err error) {
	defer obs.Time(ctx, "parcels.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("parcel repository: DB is nil")
	}

	query := `SELECT ` + parcelColumns + ` FROM parcels WHERE id = $1;`
	p, err := scanParcel(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "parcel", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get parcel: scan row: %w", err)
	}

	return p, nil
}

// Update persists the mutable status and payment fields in one statement;
// the write is atomic at the storage layer.
func (s *PostgresParcelRepository) Update(ctx context.Context, p *domain.Parcel) (err error) {
	defer obs.Time(ctx, "parcels.Update")(&err)

	if s.DB == nil {
		return errors.New("parcel repository: DB is nil")
	}

	query := `
	UPDATE parcels
	SET status = $2,
		is_paid = $3,
		paid_at_office_id = $4
	WHERE id = $1;
	`
	res, err := s.DB.ExecContext(ctx, query, p.ID, p.Status, p.IsPaid, p.PaidAtOfficeID)
	if err != nil {
		return fmt.Errorf("update parcel: exec: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update parcel: rows affected: %w", err)
	}
	if affected == 0 {
		return &domain.NotFoundError{Resource: "parcel", ID: p.ID}
	}

	return nil
}

func (s *PostgresParcelRepository) List(ctx context.Context, officeID string) (_ []*domain.Parcel, err error) {
	defer obs.Time(ctx, "parcels.List")(&err)

	if s.DB == nil {
		return nil, errors.New("parcel repository: DB is nil")
	}

	var rows *sql.Rows
	if officeID == "" {
		query := `SELECT ` + parcelColumns + ` FROM parcels ORDER BY created_at DESC;`
		rows, err = s.DB.QueryContext(ctx, query)
	} else {
		query := `
		SELECT ` + parcelColumns + `
		FROM parcels
		WHERE origin_office_id = $1 OR destination_office_id = $1
		ORDER BY created_at DESC;
		`
		rows, err = s.DB.QueryContext(ctx, query, officeID)
	}
	if err != nil {
		return nil, fmt.Errorf("list parcels: query parcels table: %w", err)
	}
	defer rows.Close()

	parcels := make([]*domain.Parcel, 0, 64)
	for rows.Next() {
		p, err := scanParcel(rows)
		if err != nil {
			return nil, fmt.Errorf("list parcels: scan row: %w", err)
		}
		parcels = append(parcels, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list parcels: row iteration: %w", err)
	}

	return parcels, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParcel(row rowScanner) (*domain.Parcel, error) {
	var p domain.Parcel
	var paidAt sql.NullString

	err := row.Scan(
		&p.ID,
		&p.SenderName,
		&p.SenderPhone,
		&p.ReceiverName,
		&p.ReceiverPhone,
		&p.Destination,
		&p.Status,
		&p.Price,
		&p.IsPaid,
		&p.OriginOfficeID,
		&p.DestinationOfficeID,
		&paidAt,
		&p.CreatedByUserID,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paidAt.Valid {
		p.PaidAtOfficeID = &paidAt.String
	}

	return &p, nil
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"parcel-tracking-service/internal/domain"
	"parcel-tracking-service/internal/platform/obs"
)

// Postgres-backed implementation of the StatusAudit port. The adapter is a
// ledger: it exposes append and list only.
type PostgresStatusHistory struct{ DB *sql.DB }

func NewPostgresStatusHistory(db *sql.DB) *PostgresStatusHistory {
	return &PostgresStatusHistory{DB: db}
}

func (s *PostgresStatusHistory) Append(ctx context.Context, e *domain.StatusHistoryEntry) (_ *domain.StatusHistoryEntry, err error) {
	defer obs.Time(ctx, "history.Append")(&err)

	if s.DB == nil {
		return nil, errors.New("status history: DB is nil")
	}

	if !domain.KnownStatus(e.NewStatus) {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unrecognized status %q", e.NewStatus)}
	}

	var exists bool
	existsQuery := `SELECT EXISTS (SELECT 1 FROM parcels WHERE id = $1);`
	if err := s.DB.QueryRowContext(ctx, existsQuery, e.ParcelID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("append history: check parcel: %w", err)
	}
	if !exists {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("parcel %q does not exist", e.ParcelID)}
	}

	stored := *e
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.ChangedAt.IsZero() {
		stored.ChangedAt = time.Now().UTC()
	}

	query := `
	INSERT INTO parcel_status_history (
		id, parcel_id, old_status, new_status, changed_by_user_id, office_id, notes, changed_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = s.DB.ExecContext(ctx, query,
		stored.ID,
		stored.ParcelID,
		stored.OldStatus,
		stored.NewStatus,
		stored.ChangedByUserID,
		stored.OfficeID,
		stored.Notes,
		stored.ChangedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("append history: insert row: %w", err)
	}

	return &stored, nil
}

func (s *PostgresStatusHistory) ListForParcel(ctx context.Context, parcelID string) (_ []*domain.StatusHistoryEntry, err error) {
	defer obs.Time(ctx, "history.ListForParcel")(&err)

	if s.DB == nil {
		return nil, errors.New("status history: DB is nil")
	}

	query := `
	SELECT id, parcel_id, old_status, new_status, changed_by_user_id, office_id, notes, changed_at
	FROM parcel_status_history
	WHERE parcel_id = $1
	ORDER BY changed_at DESC;
	`
	rows, err := s.DB.QueryContext(ctx, query, parcelID)
	if err != nil {
		return nil, fmt.Errorf("list history: query history table: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.StatusHistoryEntry, 0, 8)
	for rows.Next() {
		var e domain.StatusHistoryEntry
		var oldStatus sql.NullString
		err := rows.Scan(
			&e.ID,
			&e.ParcelID,
			&oldStatus,
			&e.NewStatus,
			&e.ChangedByUserID,
			&e.OfficeID,
			&e.Notes,
			&e.ChangedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list history: scan row: %w", err)
		}
		if oldStatus.Valid {
			e.OldStatus = &oldStatus.String
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list history: row iteration: %w", err)
	}

	return entries, nil
}

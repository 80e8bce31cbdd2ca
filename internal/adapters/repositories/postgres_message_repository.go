package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parcel-tracking-service/internal/domain"
	"parcel-tracking-service/internal/platform/obs"
)

// Postgres-backed implementation of the MessageRepository port. Reads join
// the office directory, the sender and the related parcel so callers always
// receive display-ready messages.
type PostgresMessageRepository struct{ DB *sql.DB }

func NewPostgresMessageRepository(db *sql.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{DB: db}
}

const messageSelect = `
	SELECT
		m.id,
		m.from_office_id,
		m.to_office_id,
		m.from_user_id,
		m.subject,
		m.content,
		m.related_parcel_id,
		m.read_at,
		m.created_at,
		m.updated_at,
		fo.name, fo.country,
		toff.name, toff.country,
		fu.full_name, fu.email,
		rp.sender_name, rp.receiver_name, rp.destination, rp.status
	FROM messages m
	JOIN offices fo ON fo.id = m.from_office_id
	JOIN offices toff ON toff.id = m.to_office_id
	JOIN users fu ON fu.id = m.from_user_id
	LEFT JOIN parcels rp ON rp.id = m.related_parcel_id
`

func (s *PostgresMessageRepository) Create(ctx context.Context, m *domain.Message) (err error) {
	defer obs.Time(ctx, "messages.Create")(&err)

	if s.DB == nil {
		return errors.New("message repository: DB is nil")
	}

	query := `
	INSERT INTO messages (
		id, from_office_id, to_office_id, from_user_id,
		subject, content, related_parcel_id, read_at, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = s.DB.ExecContext(ctx, query,
		m.ID,
		m.FromOfficeID,
		m.ToOfficeID,
		m.FromUserID,
		m.Subject,
		m.Content,
		m.RelatedParcelID,
		m.ReadAt,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create message: insert row: %w", err)
	}

	// Re-read through the joined select so the caller gets the resolved
	// display references without a second round trip of its own.
	resolved, err := s.Get(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("create message: resolve: %w", err)
	}
	*m = *resolved

	return nil
}

func (s *PostgresMessageRepository) Get(ctx context.Context, id string) (_ *domain.Message, err error) {
	defer obs.Time(ctx, "messages.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("message repository: DB is nil")
	}

	query := messageSelect + ` WHERE m.id = $1;`
	m, err := scanMessage(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "message", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get message: scan row: %w", err)
	}

	return m, nil
}

func (s *PostgresMessageRepository) MarkRead(ctx context.Context, id string, at time.Time) (err error) {
	defer obs.Time(ctx, "messages.MarkRead")(&err)

	if s.DB == nil {
		return errors.New("message repository: DB is nil")
	}

	query := `UPDATE messages SET read_at = $2, updated_at = $2 WHERE id = $1;`
	res, err := s.DB.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("mark message read: exec: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark message read: rows affected: %w", err)
	}
	if affected == 0 {
		return &domain.NotFoundError{Resource: "message", ID: id}
	}

	return nil
}

func (s *PostgresMessageRepository) ListReceived(ctx context.Context, officeID string) (_ []*domain.Message, err error) {
	defer obs.Time(ctx, "messages.ListReceived")(&err)

	query := messageSelect + ` WHERE m.to_office_id = $1 ORDER BY m.created_at DESC;`
	return s.queryMessages(ctx, query, officeID)
}

func (s *PostgresMessageRepository) ListSent(ctx context.Context, officeID string) (_ []*domain.Message, err error) {
	defer obs.Time(ctx, "messages.ListSent")(&err)

	query := messageSelect + ` WHERE m.from_office_id = $1 ORDER BY m.created_at DESC;`
	return s.queryMessages(ctx, query, officeID)
}

func (s *PostgresMessageRepository) ListConversation(ctx context.Context, officeA, officeB string) (_ []*domain.Message, err error) {
	defer obs.Time(ctx, "messages.ListConversation")(&err)

	query := messageSelect + `
	WHERE (m.from_office_id = $1 AND m.to_office_id = $2)
	   OR (m.from_office_id = $2 AND m.to_office_id = $1)
	ORDER BY m.created_at ASC;
	`
	return s.queryMessages(ctx, query, officeA, officeB)
}

func (s *PostgresMessageRepository) UnreadCount(ctx context.Context, officeID string) (_ int, err error) {
	defer obs.Time(ctx, "messages.UnreadCount")(&err)

	if s.DB == nil {
		return 0, errors.New("message repository: DB is nil")
	}

	query := `SELECT COUNT(*) FROM messages WHERE to_office_id = $1 AND read_at IS NULL;`
	var n int
	if err := s.DB.QueryRowContext(ctx, query, officeID).Scan(&n); err != nil {
		return 0, fmt.Errorf("unread count: query: %w", err)
	}

	return n, nil
}

func (s *PostgresMessageRepository) queryMessages(ctx context.Context, query string, args ...any) ([]*domain.Message, error) {
	if s.DB == nil {
		return nil, errors.New("message repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: query messages table: %w", err)
	}
	defer rows.Close()

	messages := make([]*domain.Message, 0, 32)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("list messages: scan row: %w", err)
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages: row iteration: %w", err)
	}

	return messages, nil
}

func scanMessage(row rowScanner) (*domain.Message, error) {
	var m domain.Message
	var relatedParcelID sql.NullString
	var readAt sql.NullTime
	var fromOfficeName, fromOfficeCountry string
	var toOfficeName, toOfficeCountry string
	var fromUserName, fromUserEmail string
	var rpSender, rpReceiver, rpDestination, rpStatus sql.NullString

	err := row.Scan(
		&m.ID,
		&m.FromOfficeID,
		&m.ToOfficeID,
		&m.FromUserID,
		&m.Subject,
		&m.Content,
		&relatedParcelID,
		&readAt,
		&m.CreatedAt,
		&m.UpdatedAt,
		&fromOfficeName, &fromOfficeCountry,
		&toOfficeName, &toOfficeCountry,
		&fromUserName, &fromUserEmail,
		&rpSender, &rpReceiver, &rpDestination, &rpStatus,
	)
	if err != nil {
		return nil, err
	}

	if relatedParcelID.Valid {
		m.RelatedParcelID = &relatedParcelID.String
	}
	if readAt.Valid {
		t := readAt.Time
		m.ReadAt = &t
	}

	m.FromOffice = &domain.OfficeRef{ID: m.FromOfficeID, Name: fromOfficeName, Country: fromOfficeCountry}
	m.ToOffice = &domain.OfficeRef{ID: m.ToOfficeID, Name: toOfficeName, Country: toOfficeCountry}
	m.FromUser = &domain.UserRef{ID: m.FromUserID, FullName: fromUserName, Email: fromUserEmail}

	if m.RelatedParcelID != nil && rpSender.Valid {
		m.RelatedParcel = &domain.ParcelRef{
			ID:           *m.RelatedParcelID,
			SenderName:   rpSender.String,
			ReceiverName: rpReceiver.String,
			Destination:  rpDestination.String,
			Status:       rpStatus.String,
		}
	}

	return &m, nil
}

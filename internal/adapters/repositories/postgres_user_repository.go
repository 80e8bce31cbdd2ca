package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"parcel-tracking-service/internal/domain"
	"parcel-tracking-service/internal/platform/obs"
)

// Postgres-backed implementation of the UserRepository port.
type PostgresUserRepository struct{ DB *sql.DB }

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

const uniqueViolation = "23505"

func (s *PostgresUserRepository) Create(ctx context.Context, u *domain.User) (err error) {
	defer obs.Time(ctx, "users.Create")(&err)

	if s.DB == nil {
		return errors.New("user repository: DB is nil")
	}

	query := `
	INSERT INTO users (id, email, password_hash, full_name, role, office_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = s.DB.ExecContext(ctx, query,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.FullName,
		u.Role,
		u.OfficeID,
		u.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return &domain.ConflictError{Message: "email already registered"}
		}
		return fmt.Errorf("create user: insert row: %w", err)
	}

	return nil
}

func (s *PostgresUserRepository) ByID(ctx context.Context, id string) (_ *domain.User, err error) {
	defer obs.Time(ctx, "users.ByID")(&err)

	query := `
	SELECT id, email, password_hash, full_name, role, office_id, created_at
	FROM users
	WHERE id = $1;
	`
	return s.queryUser(ctx, query, id)
}

func (s *PostgresUserRepository) ByEmail(ctx context.Context, email string) (_ *domain.User, err error) {
	defer obs.Time(ctx, "users.ByEmail")(&err)

	query := `
	SELECT id, email, password_hash, full_name, role, office_id, created_at
	FROM users
	WHERE email = $1;
	`
	return s.queryUser(ctx, query, email)
}

func (s *PostgresUserRepository) List(ctx context.Context) (_ []*domain.User, err error) {
	defer obs.Time(ctx, "users.List")(&err)

	if s.DB == nil {
		return nil, errors.New("user repository: DB is nil")
	}

	query := `
	SELECT id, email, password_hash, full_name, role, office_id, created_at
	FROM users
	ORDER BY created_at DESC;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: query users table: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0, 32)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: scan row: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: row iteration: %w", err)
	}

	return users, nil
}

func (s *PostgresUserRepository) queryUser(ctx context.Context, query, arg string) (*domain.User, error) {
	if s.DB == nil {
		return nil, errors.New("user repository: DB is nil")
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "user", ID: arg}
	}
	if err != nil {
		return nil, fmt.Errorf("get user: scan row: %w", err)
	}

	return u, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var officeID sql.NullString

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.Role,
		&officeID,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if officeID.Valid {
		u.OfficeID = &officeID.String
	}

	return &u, nil
}

package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/flixx/internal/models"
	"github.com/desertthunder/flixx/internal/shared"
)

var _ models.Repository[*models.Session] = (*SessionRepository)(nil)

const sessionColumns = "id, token, user_id, username, created_at, updated_at, deleted_at"

// SessionRepository implements [models.Repository] for [models.Session] persistence.
type SessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

// Create inserts a new session with a generated ID
func (r *SessionRepository) Create(s *models.Session) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO sessions (id, token, user_id, username, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, id, s.Token(), s.UserID(), s.Username(), s.CreatedAt(), s.UpdatedAt()); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	s.SetID(id)
	return nil
}

// Get retrieves a session by ID, excluding soft-deleted sessions
func (r *SessionRepository) Get(id string) (*models.Session, error) {
	row := r.db.QueryRow("SELECT "+sessionColumns+" FROM sessions WHERE id = ? AND deleted_at IS NULL", id)

	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	return s, nil
}

// Active returns the most recently updated live session.
func (r *SessionRepository) Active() (*models.Session, error) {
	row := r.db.QueryRow("SELECT " + sessionColumns + " FROM sessions WHERE deleted_at IS NULL ORDER BY updated_at DESC, created_at DESC LIMIT 1")

	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query active session: %w", err)
	}
	return s, nil
}

// Update replaces the token of an existing session and bumps updated_at
func (r *SessionRepository) Update(s *models.Session) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := r.now()
	result, err := r.db.Exec(`
		UPDATE sessions
		SET token = ?, user_id = ?, username = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, s.Token(), s.UserID(), s.Username(), now, s.ID())
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	if err := expectRows(result, s.ID()); err != nil {
		return err
	}
	s.SetUpdatedAt(now)
	return nil
}

// Delete soft-deletes a session by ID
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec("UPDATE sessions SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", r.now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return expectRows(result, id)
}

// DeleteAll soft-deletes every live session and reports how many were affected.
func (r *SessionRepository) DeleteAll() (int64, error) {
	result, err := r.db.Exec("UPDATE sessions SET deleted_at = ? WHERE deleted_at IS NULL", r.now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, nil
}

// List returns live sessions, newest first.
//
// Supported criteria: "user_id" (string).
func (r *SessionRepository) List(criteria map[string]any) ([]*models.Session, error) {
	where := []string{"deleted_at IS NULL"}
	var args []any

	for key, value := range criteria {
		switch key {
		case "user_id":
			where = append(where, "user_id = ?")
			args = append(args, value)
		default:
			return nil, fmt.Errorf("%w: unsupported criteria %q", shared.ErrInvalidArgument, key)
		}
	}

	query := "SELECT " + sessionColumns + " FROM sessions WHERE " + strings.Join(where, " AND ") + " ORDER BY updated_at DESC"
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*models.Session, error) {
	var (
		id, token, userID, username string
		createdAt, updatedAt        time.Time
		deletedAt                   sql.NullTime
	)

	if err := row.Scan(&id, &token, &userID, &username, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	s := models.NewSession(token, userID, username)
	s.SetID(id)
	s.SetCreatedAt(createdAt)
	s.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		s.SetDeletedAt(&deletedAt.Time)
	}
	return s, nil
}

func expectRows(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w or already deleted: %s", shared.ErrSessionNotFound, id)
	}
	return nil
}

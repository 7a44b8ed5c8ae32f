package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"quiz-reply-service/internal/domain"
)

// SessionStore persists session state in the quiz_sessions table.
type SessionStore struct {
	db    *bun.DB
	clock func() time.Time
}

func NewSessionStore(db *bun.DB) *SessionStore {
	return &SessionStore{db: db, clock: time.Now}
}

func (s *SessionStore) Load(ctx context.Context, sessionID string) (domain.SessionState, error) {
	row := new(sessionRow)
	err := s.db.NewSelect().Model(row).Where("id = ?", sessionID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SessionState{}, nil
	}
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("select session: %w", err)
	}
	return row.State, nil
}

func (s *SessionStore) Save(ctx context.Context, sessionID string, state domain.SessionState) error {
	row := &sessionRow{ID: sessionID, State: state, UpdatedAt: s.clock()}
	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("state = EXCLUDED.state").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	_, err := s.db.NewDelete().Model((*sessionRow)(nil)).Where("id = ?", sessionID).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeIdle removes sessions not updated within maxIdle and returns how many were dropped.
func (s *SessionStore) PurgeIdle(ctx context.Context, maxIdle time.Duration) (int64, error) {
	res, err := s.db.NewDelete().
		Model((*sessionRow)(nil)).
		Where("updated_at < ?", s.clock().Add(-maxIdle)).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return res.RowsAffected()
}

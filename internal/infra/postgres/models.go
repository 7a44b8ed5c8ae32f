package postgres

import (
	"time"

	"github.com/uptrace/bun"
	"quiz-reply-service/internal/domain"
)

type bankRow struct {
	bun.BaseModel `bun:"table:quiz_banks"`

	ID        string      `bun:"id,pk"`
	Data      domain.Bank `bun:"data,type:jsonb"`
	UpdatedAt time.Time   `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type sessionRow struct {
	bun.BaseModel `bun:"table:quiz_sessions"`

	ID        string              `bun:"id,pk"`
	State     domain.SessionState `bun:"state,type:jsonb"`
	UpdatedAt time.Time           `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

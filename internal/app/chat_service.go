package app

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"quiz-reply-service/internal/domain"
)

// SessionRepository abstracts where session state lives (in-memory, Redis, Postgres).
// Load returns a zero state for unknown sessions.
type SessionRepository interface {
	Load(ctx context.Context, sessionID string) (domain.SessionState, error)
	Save(ctx context.Context, sessionID string, state domain.SessionState) error
	Delete(ctx context.Context, sessionID string) error
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// Reply is what a transport sends back for one inbound message.
type Reply struct {
	SessionID string
	Responses []string
	Status    domain.Status
	// Err is set when the message was rejected as an answer; Responses then
	// already carry the user-facing error text.
	Err error
}

// SessionView is a read-only snapshot of a session.
type SessionView struct {
	SessionID         string
	CurrentQuestionID *int
	Answers           map[int]string
	Status            domain.Status
	Summary           string
}

// ChatService runs quiz turns for chat sessions.
type ChatService struct {
	sessions SessionRepository
	banks    BankRepository
	bankID   string
	opts     []EngineOption
	locks    [64]sync.Mutex
}

func NewChatService(sessions SessionRepository, banks BankRepository, bankID string, opts ...EngineOption) *ChatService {
	return &ChatService{sessions: sessions, banks: banks, bankID: bankID, opts: opts}
}

// Reply processes one message for a session and persists the resulting state.
func (s *ChatService) Reply(ctx context.Context, sessionID, message string) (Reply, error) {
	engine, err := s.engine(ctx)
	if err != nil {
		return Reply{}, err
	}

	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return Reply{}, fmt.Errorf("load session: %w", err)
	}

	turn := engine.GenerateResponses(message, state)
	if turn.Err == nil {
		if err := s.sessions.Save(ctx, sessionID, turn.State); err != nil {
			return Reply{}, fmt.Errorf("save session: %w", err)
		}
	}

	return Reply{
		SessionID: sessionID,
		Responses: turn.Responses,
		Status:    domain.StatusOf(turn.State, engine.Bank().Len()),
		Err:       turn.Err,
	}, nil
}

// Reset drops any stored progress so the next message starts over.
func (s *ChatService) Reset(ctx context.Context, sessionID string) error {
	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Status returns the stored progress of a session. Summary is filled once the quiz is complete.
func (s *ChatService) Status(ctx context.Context, sessionID string) (SessionView, error) {
	engine, err := s.engine(ctx)
	if err != nil {
		return SessionView{}, err
	}
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return SessionView{}, fmt.Errorf("load session: %w", err)
	}

	view := SessionView{
		SessionID:         sessionID,
		CurrentQuestionID: state.CurrentQuestionID,
		Answers:           state.Answers,
		Status:            domain.StatusOf(state, engine.Bank().Len()),
	}
	if view.Status == domain.StatusComplete {
		view.Summary = engine.FinalSummary(state)
	}
	return view, nil
}

func (s *ChatService) engine(ctx context.Context) (*Engine, error) {
	bank, err := s.banks.GetBank(ctx, s.bankID)
	if err != nil {
		return nil, fmt.Errorf("get bank %s: %w", s.bankID, err)
	}
	return NewEngine(bank, s.opts...), nil
}

// lockFor serializes turns on the same session; unrelated sessions may share a stripe.
func (s *ChatService) lockFor(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return &s.locks[h.Sum32()%uint32(len(s.locks))]
}

package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"quiz-reply-service/internal/domain"
)

const (
	// DefaultWelcome greets a session that has no quiz progress yet.
	DefaultWelcome = "Welcome to the quiz! Answer each question by sending one of the listed options."

	MsgInvalidQuestion = "Invalid current question ID"
	MsgInvalidAnswer   = "Invalid answer"
)

// StartPolicy decides how the first message of a fresh session is treated.
type StartPolicy string

const (
	// StartStrict validates the first message as an answer like any other turn.
	// With no current question it always fails, so the session never advances on
	// its own; the first turn replies with the welcome and the invalid question text.
	StartStrict StartPolicy = "strict"
	// StartGreet answers a fresh session with the welcome and the first question
	// without recording anything.
	StartGreet StartPolicy = "greet"
)

// ParseStartPolicy maps a config value to a StartPolicy. Empty means StartStrict.
func ParseStartPolicy(raw string) (StartPolicy, error) {
	switch StartPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StartStrict:
		return StartStrict, nil
	case StartGreet:
		return StartGreet, nil
	}
	return "", fmt.Errorf("unknown start policy %q", raw)
}

// Turn is the outcome of one message processed by the Engine.
type Turn struct {
	Responses []string
	State     domain.SessionState
	// Err is ErrInvalidQuestion or ErrInvalidAnswer when the message was rejected.
	// State is then unchanged and must not be saved.
	Err error
}

// Engine turns an inbound answer and the session state into outbound messages.
// It holds no mutable state and is safe to share.
type Engine struct {
	bank    domain.Bank
	welcome string
	start   StartPolicy
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithWelcome overrides the welcome text.
func WithWelcome(text string) EngineOption {
	return func(e *Engine) {
		if text != "" {
			e.welcome = text
		}
	}
}

// WithStartPolicy selects how fresh sessions are handled.
func WithStartPolicy(p StartPolicy) EngineOption {
	return func(e *Engine) {
		if p != "" {
			e.start = p
		}
	}
}

func NewEngine(bank domain.Bank, opts ...EngineOption) *Engine {
	e := &Engine{bank: bank, welcome: DefaultWelcome, start: StartStrict}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Bank returns the question bank the engine serves.
func (e *Engine) Bank() domain.Bank {
	return e.bank
}

// GenerateResponses processes one message against state and returns the replies
// together with the state to persist.
func (e *Engine) GenerateResponses(message string, state domain.SessionState) Turn {
	var responses []string
	fresh := !state.Started()
	if fresh {
		responses = append(responses, e.welcome)
		if first, ok := e.bank.Question(0); ok && e.start == StartGreet {
			return Turn{
				Responses: append(responses, e.questionLines(first)...),
				State:     state.WithCurrent(0),
			}
		}
	}

	next := state.Clone()
	if err := e.RecordAnswer(message, state.CurrentQuestionID, &next); err != nil {
		return Turn{
			Responses: append(responses, errorText(err)),
			State:     state,
			Err:       err,
		}
	}

	current := *state.CurrentQuestionID
	question, nextID, ok := e.NextQuestion(current)
	if ok {
		responses = append(responses, e.questionLines(question)...)
	} else {
		nextID = current + 1
		responses = append(responses, e.FinalSummary(next))
	}

	next.CurrentQuestionID = &nextID
	return Turn{Responses: responses, State: next}
}

// RecordAnswer validates answer against question id and stores it in state.
// state is left untouched on failure.
func (e *Engine) RecordAnswer(answer string, id *int, state *domain.SessionState) error {
	if id == nil {
		return domain.ErrInvalidQuestion
	}
	question, ok := e.bank.Question(*id)
	if !ok {
		return domain.ErrInvalidQuestion
	}
	if !question.HasOption(answer) {
		return domain.ErrInvalidAnswer
	}
	if state.Answers == nil {
		state.Answers = make(map[int]string)
	}
	state.Answers[*id] = answer
	return nil
}

// NextQuestion returns the question following id, or ok=false past the end of the bank.
func (e *Engine) NextQuestion(id int) (domain.Question, int, bool) {
	nextID := id + 1
	question, ok := e.bank.Question(nextID)
	if !ok {
		return domain.Question{}, 0, false
	}
	return question, nextID, true
}

// Score counts correct answers in state. Answers for ids outside the bank are ignored.
func (e *Engine) Score(state domain.SessionState) (correct, total int) {
	for id, answer := range state.Answers {
		question, ok := e.bank.Question(id)
		if ok && answer == question.Answer {
			correct++
		}
	}
	return correct, e.bank.Len()
}

// FinalSummary renders the score line for state.
func (e *Engine) FinalSummary(state domain.SessionState) string {
	correct, total := e.Score(state)
	percentage := float64(correct) / float64(total) * 100
	return fmt.Sprintf("You answered %d out of %d questions correctly. Your score: %s%%",
		correct, total, formatPercent(percentage))
}

func (e *Engine) questionLines(q domain.Question) []string {
	lines := make([]string, 0, len(q.Options)+1)
	lines = append(lines, q.Text)
	return append(lines, q.Options...)
}

func errorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidAnswer):
		return MsgInvalidAnswer
	default:
		return MsgInvalidQuestion
	}
}

// formatPercent prints the shortest representation that round-trips, keeping a
// fractional part for whole numbers ("100.0", "66.66666666666666").
func formatPercent(p float64) string {
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

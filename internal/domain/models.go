package domain

import "fmt"

// Question is a single multiple choice prompt. Its id is its position in the bank.
type Question struct {
	Text    string   `json:"question_text" yaml:"question_text"`
	Options []string `json:"options" yaml:"options"`
	Answer  string   `json:"answer" yaml:"answer"`
}

// HasOption reports whether answer exactly matches one of the options.
func (q Question) HasOption(answer string) bool {
	for _, opt := range q.Options {
		if opt == answer {
			return true
		}
	}
	return false
}

// Bank is an ordered, read-only set of questions.
type Bank struct {
	ID        string     `json:"id" yaml:"id"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Len returns the number of questions in the bank.
func (b Bank) Len() int {
	return len(b.Questions)
}

// Question returns the question at id, or false when id is out of range.
func (b Bank) Question(id int) (Question, bool) {
	if id < 0 || id >= len(b.Questions) {
		return Question{}, false
	}
	return b.Questions[id], true
}

// Validate checks the bank is usable by the reply engine.
func (b Bank) Validate() error {
	if len(b.Questions) == 0 {
		return ErrEmptyBank
	}
	for i, q := range b.Questions {
		if q.Text == "" {
			return fmt.Errorf("%w: question %d has no text", ErrInvalidBank, i)
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: question %d has no options", ErrInvalidBank, i)
		}
		seen := make(map[string]struct{}, len(q.Options))
		for _, opt := range q.Options {
			if _, dup := seen[opt]; dup {
				return fmt.Errorf("%w: question %d repeats option %q", ErrInvalidBank, i, opt)
			}
			seen[opt] = struct{}{}
		}
		if !q.HasOption(q.Answer) {
			return fmt.Errorf("%w: question %d answer %q is not an option", ErrInvalidBank, i, q.Answer)
		}
	}
	return nil
}

// SessionState is the per-conversation quiz progress. A nil CurrentQuestionID
// means the quiz has not started.
type SessionState struct {
	CurrentQuestionID *int           `json:"current_question_id,omitempty"`
	Answers           map[int]string `json:"answers,omitempty"`
}

// Started reports whether the session has a current question id.
func (s SessionState) Started() bool {
	return s.CurrentQuestionID != nil
}

// Clone returns a copy that shares no memory with s.
func (s SessionState) Clone() SessionState {
	out := SessionState{}
	if s.CurrentQuestionID != nil {
		id := *s.CurrentQuestionID
		out.CurrentQuestionID = &id
	}
	if s.Answers != nil {
		out.Answers = make(map[int]string, len(s.Answers))
		for k, v := range s.Answers {
			out.Answers[k] = v
		}
	}
	return out
}

// WithCurrent returns a copy of s pointing at question id.
func (s SessionState) WithCurrent(id int) SessionState {
	out := s.Clone()
	out.CurrentQuestionID = &id
	return out
}

// Status is the derived position of a session in the quiz.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
)

// StatusOf derives the status of state against a bank of size total.
func StatusOf(state SessionState, total int) Status {
	if state.CurrentQuestionID == nil {
		return StatusNotStarted
	}
	if *state.CurrentQuestionID >= total {
		return StatusComplete
	}
	return StatusInProgress
}

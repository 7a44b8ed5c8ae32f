package app_test

import (
	"errors"
	"reflect"
	"testing"

	"quiz-reply-service/internal/app"
	"quiz-reply-service/internal/domain"
)

func TestFreshSessionStrictStart(t *testing.T) {
	engine := app.NewEngine(testBank(), app.WithWelcome("hi"))

	turn := engine.GenerateResponses("anything", domain.SessionState{})

	want := []string{"hi", app.MsgInvalidQuestion}
	if !reflect.DeepEqual(turn.Responses, want) {
		t.Fatalf("expected %v, got %v", want, turn.Responses)
	}
	if !errors.Is(turn.Err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected invalid question, got %v", turn.Err)
	}
	if turn.State.Started() {
		t.Fatalf("expected session to stay not started")
	}
}

func TestFreshSessionGreetStart(t *testing.T) {
	engine := app.NewEngine(testBank(), app.WithWelcome("hi"), app.WithStartPolicy(app.StartGreet))

	turn := engine.GenerateResponses("anything", domain.SessionState{})
	if turn.Err != nil {
		t.Fatalf("unexpected error: %v", turn.Err)
	}
	want := []string{"hi", "What is 2 + 2?", "3", "4", "5"}
	if !reflect.DeepEqual(turn.Responses, want) {
		t.Fatalf("expected %v, got %v", want, turn.Responses)
	}
	if turn.State.CurrentQuestionID == nil || *turn.State.CurrentQuestionID != 0 {
		t.Fatalf("expected current question 0, got %v", turn.State.CurrentQuestionID)
	}
	if len(turn.State.Answers) != 0 {
		t.Fatalf("expected no answers recorded, got %v", turn.State.Answers)
	}
}

func TestValidAnswerAdvances(t *testing.T) {
	engine := app.NewEngine(testBank())

	turn := engine.GenerateResponses("4", at(0))
	if turn.Err != nil {
		t.Fatalf("unexpected error: %v", turn.Err)
	}
	want := []string{"Which keyword defines a function in Go?", "def", "func", "fn"}
	if !reflect.DeepEqual(turn.Responses, want) {
		t.Fatalf("expected %v, got %v", want, turn.Responses)
	}
	if got := turn.State.Answers[0]; got != "4" {
		t.Fatalf("expected answer 4 recorded, got %q", got)
	}
	if *turn.State.CurrentQuestionID != 1 {
		t.Fatalf("expected current question 1, got %d", *turn.State.CurrentQuestionID)
	}
}

func TestInvalidAnswerKeepsState(t *testing.T) {
	engine := app.NewEngine(testBank())
	state := at(1)
	state.Answers = map[int]string{0: "4"}

	turn := engine.GenerateResponses("function", state)

	if !reflect.DeepEqual(turn.Responses, []string{app.MsgInvalidAnswer}) {
		t.Fatalf("expected only invalid answer, got %v", turn.Responses)
	}
	if !errors.Is(turn.Err, domain.ErrInvalidAnswer) {
		t.Fatalf("expected invalid answer error, got %v", turn.Err)
	}
	if !reflect.DeepEqual(state.Answers, map[int]string{0: "4"}) {
		t.Fatalf("input answers mutated: %v", state.Answers)
	}
	if *turn.State.CurrentQuestionID != 1 || len(turn.State.Answers) != 1 {
		t.Fatalf("expected state unchanged, got %+v", turn.State)
	}
}

func TestAnswerIsCaseSensitive(t *testing.T) {
	engine := app.NewEngine(testBank())
	turn := engine.GenerateResponses("FUNC", at(1))
	if !errors.Is(turn.Err, domain.ErrInvalidAnswer) {
		t.Fatalf("expected invalid answer, got %v", turn.Err)
	}
}

func TestLastQuestionYieldsSummary(t *testing.T) {
	cases := []struct {
		name    string
		answers map[int]string
		last    string
		want    string
	}{
		{
			name:    "all correct",
			answers: map[int]string{0: "4", 1: "func"},
			last:    "true",
			want:    "You answered 3 out of 3 questions correctly. Your score: 100.0%",
		},
		{
			name:    "two correct",
			answers: map[int]string{0: "4", 1: "def"},
			last:    "true",
			want:    "You answered 2 out of 3 questions correctly. Your score: 66.66666666666666%",
		},
		{
			name:    "one correct",
			answers: map[int]string{0: "3", 1: "fn"},
			last:    "true",
			want:    "You answered 1 out of 3 questions correctly. Your score: 33.33333333333333%",
		},
		{
			name:    "none correct",
			answers: map[int]string{0: "5", 1: "def"},
			last:    "false",
			want:    "You answered 0 out of 3 questions correctly. Your score: 0.0%",
		},
	}

	engine := app.NewEngine(testBank())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := at(2)
			state.Answers = tc.answers

			turn := engine.GenerateResponses(tc.last, state)
			if turn.Err != nil {
				t.Fatalf("unexpected error: %v", turn.Err)
			}
			if !reflect.DeepEqual(turn.Responses, []string{tc.want}) {
				t.Fatalf("expected %q, got %v", tc.want, turn.Responses)
			}
			if domain.StatusOf(turn.State, 3) != domain.StatusComplete {
				t.Fatalf("expected complete status, got %+v", turn.State)
			}
		})
	}
}

func TestCompletedSessionRejectsFurtherAnswers(t *testing.T) {
	engine := app.NewEngine(testBank())

	turn := engine.GenerateResponses("true", at(3))
	if !reflect.DeepEqual(turn.Responses, []string{app.MsgInvalidQuestion}) {
		t.Fatalf("expected invalid question only, got %v", turn.Responses)
	}
}

func TestRecordAnswerOverwritesSameValue(t *testing.T) {
	engine := app.NewEngine(testBank())
	state := domain.SessionState{}
	id := 1

	for i := 0; i < 2; i++ {
		if err := engine.RecordAnswer("func", &id, &state); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	if !reflect.DeepEqual(state.Answers, map[int]string{1: "func"}) {
		t.Fatalf("expected single answer, got %v", state.Answers)
	}
}

func TestRecordAnswerRejectsOutOfRangeIDs(t *testing.T) {
	engine := app.NewEngine(testBank())
	for _, id := range []int{-1, 3, 42} {
		state := domain.SessionState{}
		id := id
		if err := engine.RecordAnswer("4", &id, &state); !errors.Is(err, domain.ErrInvalidQuestion) {
			t.Fatalf("id %d: expected invalid question, got %v", id, err)
		}
		if state.Answers != nil {
			t.Fatalf("id %d: expected no write, got %v", id, state.Answers)
		}
	}
}

func TestNextQuestionBounds(t *testing.T) {
	engine := app.NewEngine(testBank())

	q, id, ok := engine.NextQuestion(0)
	if !ok || id != 1 || q.Text != "Which keyword defines a function in Go?" {
		t.Fatalf("unexpected next question: %+v %d %v", q, id, ok)
	}
	if _, _, ok := engine.NextQuestion(2); ok {
		t.Fatalf("expected no question after the last one")
	}
}

func TestFinalSummaryIsStable(t *testing.T) {
	engine := app.NewEngine(testBank())
	state := at(3)
	state.Answers = map[int]string{0: "4", 1: "func", 2: "false", 9: "ignored"}

	first := engine.FinalSummary(state)
	second := engine.FinalSummary(state)
	if first != second {
		t.Fatalf("summary changed between calls: %q vs %q", first, second)
	}
	want := "You answered 2 out of 3 questions correctly. Your score: 66.66666666666666%"
	if first != want {
		t.Fatalf("expected %q, got %q", want, first)
	}
}

func TestParseStartPolicy(t *testing.T) {
	if p, err := app.ParseStartPolicy(""); err != nil || p != app.StartStrict {
		t.Fatalf("expected strict default, got %q %v", p, err)
	}
	if p, err := app.ParseStartPolicy(" Greet "); err != nil || p != app.StartGreet {
		t.Fatalf("expected greet, got %q %v", p, err)
	}
	if _, err := app.ParseStartPolicy("skip"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func at(id int) domain.SessionState {
	return domain.SessionState{}.WithCurrent(id)
}

func testBank() domain.Bank {
	return domain.Bank{
		ID: "basics",
		Questions: []domain.Question{
			{Text: "What is 2 + 2?", Options: []string{"3", "4", "5"}, Answer: "4"},
			{Text: "Which keyword defines a function in Go?", Options: []string{"def", "func", "fn"}, Answer: "func"},
			{Text: "Is a nil map safe to read?", Options: []string{"true", "false"}, Answer: "true"},
		},
	}
}

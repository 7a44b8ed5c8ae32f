package app_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"quiz-reply-service/internal/app"
	"quiz-reply-service/internal/domain"
	"quiz-reply-service/internal/infra/memory"
)

func TestReplyPlaysWholeQuiz(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(app.WithStartPolicy(app.StartGreet))

	reply, err := service.Reply(ctx, "s1", "hello")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply.Responses[0] != app.DefaultWelcome || reply.Status != domain.StatusInProgress {
		t.Fatalf("unexpected greeting: %+v", reply)
	}

	for _, answer := range []string{"4", "def"} {
		if reply, err = service.Reply(ctx, "s1", answer); err != nil {
			t.Fatalf("reply %q: %v", answer, err)
		}
	}
	reply, err = service.Reply(ctx, "s1", "true")
	if err != nil {
		t.Fatalf("final reply: %v", err)
	}
	want := []string{"You answered 2 out of 3 questions correctly. Your score: 66.66666666666666%"}
	if !reflect.DeepEqual(reply.Responses, want) {
		t.Fatalf("expected %v, got %v", want, reply.Responses)
	}
	if reply.Status != domain.StatusComplete {
		t.Fatalf("expected complete, got %s", reply.Status)
	}

	view, err := service.Status(ctx, "s1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if view.Summary != want[0] {
		t.Fatalf("expected summary in view, got %+v", view)
	}
}

func TestReplyDoesNotSaveRejectedTurns(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService()

	reply, err := service.Reply(ctx, "s1", "hello")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if !errors.Is(reply.Err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected invalid question, got %v", reply.Err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected nothing saved for rejected turn")
	}

	_ = store.Save(ctx, "s1", domain.SessionState{}.WithCurrent(0))
	reply, _ = service.Reply(ctx, "s1", "seven")
	if !reflect.DeepEqual(reply.Responses, []string{app.MsgInvalidAnswer}) {
		t.Fatalf("expected invalid answer, got %v", reply.Responses)
	}
	state, _ := store.Load(ctx, "s1")
	if len(state.Answers) != 0 || *state.CurrentQuestionID != 0 {
		t.Fatalf("expected state untouched, got %+v", state)
	}
}

func TestResetStartsOver(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService(app.WithStartPolicy(app.StartGreet))

	_, _ = service.Reply(ctx, "s1", "hello")
	if err := service.Reset(ctx, "s1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected session removed")
	}
	view, _ := service.Status(ctx, "s1")
	if view.Status != domain.StatusNotStarted {
		t.Fatalf("expected not started, got %s", view.Status)
	}
}

func TestReplyPropagatesStoreFailures(t *testing.T) {
	boom := errors.New("boom")
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(map[string]domain.Bank{"basics": testBank()}), time.Minute)
	service := app.NewChatService(failingStore{err: boom}, banks, "basics")

	if _, err := service.Reply(context.Background(), "s1", "4"); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestReplyUnknownBank(t *testing.T) {
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(nil), time.Minute)
	service := app.NewChatService(memory.NewSessionStore(), banks, "missing")

	if _, err := service.Reply(context.Background(), "s1", "4"); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected bank not found, got %v", err)
	}
}

func TestConcurrentRepliesOnOneSession(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService()
	_ = store.Save(ctx, "s1", domain.SessionState{}.WithCurrent(0))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = service.Reply(ctx, "s1", "4")
		}()
	}
	wg.Wait()

	// Exactly one turn can answer question 0; the rest hit question 1 with "4".
	state, _ := store.Load(ctx, "s1")
	if *state.CurrentQuestionID != 1 {
		t.Fatalf("expected a single advance, got %d", *state.CurrentQuestionID)
	}
}

type failingStore struct {
	err error
}

func (f failingStore) Load(context.Context, string) (domain.SessionState, error) {
	return domain.SessionState{}, f.err
}

func (f failingStore) Save(context.Context, string, domain.SessionState) error {
	return f.err
}

func (f failingStore) Delete(context.Context, string) error {
	return f.err
}

func newTestService(opts ...app.EngineOption) (*app.ChatService, *memory.SessionStore) {
	store := memory.NewSessionStore()
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(map[string]domain.Bank{
		"basics": testBank(),
	}), 5*time.Minute)
	return app.NewChatService(store, banks, "basics", opts...), store
}

package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"quiz-reply-service/internal/domain"
)

const basicsYAML = `
questions:
  - question_text: What is 2 + 2?
    options: ["3", "4", "5"]
    answer: "4"
  - question_text: Which keyword defines a function in Go?
    options:
      - def
      - func
    answer: func
`

func TestLoadBankFromDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "basics.yaml"), []byte(basicsYAML), 0o600); err != nil {
		t.Fatalf("write bank: %v", err)
	}

	bank, err := NewBankLoader(dir).LoadBank(context.Background(), "basics")
	if err != nil {
		t.Fatalf("load bank: %v", err)
	}
	if bank.ID != "basics" || bank.Len() != 2 {
		t.Fatalf("unexpected bank %+v", bank)
	}
	if bank.Questions[1].Answer != "func" || len(bank.Questions[0].Options) != 3 {
		t.Fatalf("unexpected questions %+v", bank.Questions)
	}
	if err := bank.Validate(); err != nil {
		t.Fatalf("expected valid bank: %v", err)
	}
}

func TestLoadBankMissing(t *testing.T) {
	loader := NewBankLoader(t.TempDir())
	for _, id := range []string{"nope", "../etc/passwd", ""} {
		if _, err := loader.LoadBank(context.Background(), id); !errors.Is(err, domain.ErrBankNotFound) {
			t.Fatalf("%q: expected bank not found, got %v", id, err)
		}
	}
}

func TestLoadBankBadYAML(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, "bad.yml"), []byte("questions: [oops"), 0o600)

	_, err := NewBankLoader(dir).LoadBank(context.Background(), "bad")
	if err == nil || errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

package questionnaire

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
)

func TestLoadQuestionsDefault(t *testing.T) {
	qs, err := LoadQuestions("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testboil.FailTestIfDiff(t, len(qs), 12)
	testboil.FailTestIfDiff(t, qs[0], "What is your age?")

	qs[0] = "changed"
	testboil.FailTestIfDiff(t, DefaultQuestions[0], "What is your age?")
}

func TestLoadQuestionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.yaml")
	data := "questions:\n  - How old are you?\n  - \"Do you smoke? (Yes/No)\"\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("could not write file: %v", err)
	}

	qs, err := LoadQuestions(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testboil.FailTestIfDiff(t, len(qs), 2)
	testboil.FailTestIfDiff(t, qs[1], "Do you smoke? (Yes/No)")
}

func TestParseQuestionsErrors(t *testing.T) {
	if _, err := ParseQuestions([]byte("questions: []\n")); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("expected ErrNoQuestions, got %v", err)
	}
	if _, err := ParseQuestions([]byte("questions:\n  - ok\n  - \" \"\n")); err == nil {
		t.Error("expected error for blank question")
	}
	if _, err := ParseQuestions([]byte("questions: [unclosed\n")); err == nil {
		t.Error("expected error for invalid yaml")
	}
	if _, err := LoadQuestions(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

package questionnaire

import (
	"errors"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
	"github.com/korylprince/questionnaire-relay/relay"
)

type recordingSender struct {
	calls     int
	answers   []string
	answerMap map[string]string
	err       error
}

func (r *recordingSender) SendAnswers(answers []string, answerMap map[string]string) error {
	if r.err != nil {
		return r.err
	}
	r.calls++
	r.answers = answers
	r.answerMap = answerMap
	return nil
}

func TestSessionScenario(t *testing.T) {
	sender := &recordingSender{}
	s, err := NewSession([]string{"Q1", "Q2"}, sender)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q, ok := s.Current()
	if !ok {
		t.Fatal("expected a current question")
	}
	testboil.FailTestIfDiff(t, q, "Q1")

	if err := s.SubmitAnswer("30"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Pending() {
		t.Fatal("session should not be pending after the first answer")
	}
	q, _ = s.Current()
	testboil.FailTestIfDiff(t, q, "Q2")

	if err := s.SubmitAnswer("Male"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Pending() {
		t.Fatal("session should be pending after the last answer")
	}
	testboil.FailTestIfDiff(t, sender.calls, 1)
	testboil.FailTestIfDiff(t, len(sender.answers), 2)
	testboil.FailTestIfDiff(t, sender.answers[0], "30")
	testboil.FailTestIfDiff(t, sender.answers[1], "Male")
	testboil.FailTestIfDiff(t, sender.answerMap["Q2"], "Male")
	if _, ok := s.Current(); ok {
		t.Error("expected no current question after the last answer")
	}
	testboil.FailTestIfDiff(t, s.Index(), 2)

	s.OnResultReceived(relay.TextQuestions("Do you exercise?"))
	if s.Pending() {
		t.Error("pending should clear when the result arrives")
	}
	if !s.Done() {
		t.Error("session should be done")
	}

	history := s.History()
	last := history[len(history)-1]
	testboil.FailTestIfDiff(t, last.Sender, SenderBot)
	testboil.FailTestIfDiff(t, last.Message, "Do you exercise?")
	testboil.FailTestIfDiff(t, history[len(history)-2].Message, ResultsMessage)
}

func TestSessionHistoryTranscript(t *testing.T) {
	s, _ := NewSession([]string{"Q1", "Q2"}, &recordingSender{})

	want := []Entry{{Sender: SenderBot, Message: "Q1"}}
	testboil.FailTestIfDiff(t, len(s.History()), len(want))
	testboil.FailTestIfDiff(t, s.History()[0], want[0])

	if err := s.SubmitAnswer("30"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want = append(want, Entry{Sender: SenderUser, Message: "30"}, Entry{Sender: SenderBot, Message: "Q2"})
	history := s.History()
	testboil.FailTestIfDiff(t, len(history), len(want))
	for i := range want {
		testboil.FailTestIfDiff(t, history[i], want[i])
	}

	if err := s.SubmitAnswer("Male"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.OnResultReceived(relay.TextQuestions("Do you exercise?"))
	want = append(want,
		Entry{Sender: SenderUser, Message: "Male"},
		Entry{Sender: SenderBot, Message: AnalyzingMessage},
		Entry{Sender: SenderBot, Message: ResultsMessage},
		Entry{Sender: SenderBot, Message: "Do you exercise?"},
	)
	history = s.History()
	testboil.FailTestIfDiff(t, len(history), len(want))
	for i := range want {
		testboil.FailTestIfDiff(t, history[i], want[i])
	}
}

func TestSessionPendsExactlyOnceOnLastAnswer(t *testing.T) {
	for n := 1; n <= 5; n++ {
		questions := make([]string, n)
		for i := range questions {
			questions[i] = string(rune('A' + i))
		}
		sender := &recordingSender{}
		s, _ := NewSession(questions, sender)

		for i := 0; i < n; i++ {
			if s.Pending() {
				t.Fatalf("n=%d: pending before answer %d", n, i+1)
			}
			if err := s.SubmitAnswer("answer"); err != nil {
				t.Fatalf("n=%d: unexpected error: %v", n, err)
			}
		}
		if !s.Pending() {
			t.Errorf("n=%d: expected pending after %d answers", n, n)
		}
		testboil.FailTestIfDiff(t, sender.calls, 1)
	}
}

func TestSessionRejectsInput(t *testing.T) {
	s, _ := NewSession([]string{"Q1"}, &recordingSender{})

	for _, blank := range []string{"", "   ", "\t\n"} {
		if err := s.SubmitAnswer(blank); !errors.Is(err, ErrEmptyAnswer) {
			t.Errorf("expected ErrEmptyAnswer for %q, got %v", blank, err)
		}
	}
	testboil.FailTestIfDiff(t, len(s.Answers()), 0)
	testboil.FailTestIfDiff(t, len(s.History()), 1)

	s.SubmitAnswer("yes")
	if err := s.SubmitAnswer("again"); !errors.Is(err, ErrPending) {
		t.Errorf("expected ErrPending, got %v", err)
	}

	s.OnResultReceived(relay.TextQuestions("ok"))
	if err := s.SubmitAnswer("again"); !errors.Is(err, ErrComplete) {
		t.Errorf("expected ErrComplete, got %v", err)
	}
}

func TestSessionSendFailureKeepsLastQuestionOpen(t *testing.T) {
	sender := &recordingSender{err: errors.New("connection closed")}
	s, _ := NewSession([]string{"Q1"}, sender)

	if err := s.SubmitAnswer("yes"); err == nil {
		t.Fatal("expected send error")
	}
	if s.Pending() {
		t.Error("session should not be pending when sending failed")
	}
	q, ok := s.Current()
	if !ok || q != "Q1" {
		t.Errorf("expected Q1 to remain current, got %q", q)
	}

	sender.err = nil
	if err := s.SubmitAnswer("yes"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testboil.FailTestIfDiff(t, len(sender.answers), 1)
}

func TestSessionRendersFallbackList(t *testing.T) {
	s, _ := NewSession([]string{"Q1"}, &recordingSender{})
	s.SubmitAnswer("yes")
	s.OnResultReceived(relay.ListQuestions(relay.FallbackMessage))

	history := s.History()
	testboil.FailTestIfDiff(t, history[len(history)-1].Message, relay.FallbackMessage)
}

func TestNewSessionNeedsQuestions(t *testing.T) {
	if _, err := NewSession(nil, &recordingSender{}); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("expected ErrNoQuestions, got %v", err)
	}
}

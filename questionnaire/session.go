// Package questionnaire walks a user through a fixed question list and hands
// the collected answers to the relay.
package questionnaire

import (
	"errors"
	"fmt"
	"strings"

	"github.com/korylprince/questionnaire-relay/relay"
)

// Session errors
var (
	ErrEmptyAnswer = errors.New("answer must not be empty")
	ErrPending     = errors.New("waiting for generated questions")
	ErrComplete    = errors.New("questionnaire is complete")
)

// Bot messages added to the history around submission
const (
	AnalyzingMessage = "Analyzing your responses and generating further questions..."
	ResultsMessage   = "Here are the additional questions based on your responses:"
)

// Sender identifies who wrote a history entry
type Sender string

// Senders
const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Entry is one rendered chat message
type Entry struct {
	Sender  Sender `json:"sender"`
	Message string `json:"message"`
}

// AnswerSender delivers a finished answer set to the relay
type AnswerSender interface {
	SendAnswers(answers []string, answerMap map[string]string) error
}

// Session is one user's walk through the question list
type Session struct {
	questions []string
	answers   []string
	history   []Entry
	index     int
	pending   bool
	done      bool
	sender    AnswerSender
}

// NewSession starts a session at the first question, which opens the history
func NewSession(questions []string, sender AnswerSender) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return &Session{
		questions: append([]string(nil), questions...),
		history:   []Entry{{Sender: SenderBot, Message: questions[0]}},
		sender:    sender,
	}, nil
}

// Current returns the question awaiting an answer. ok is false once every question is answered.
func (s *Session) Current() (question string, ok bool) {
	if s.index >= len(s.questions) {
		return "", false
	}
	return s.questions[s.index], true
}

// Index returns the 0-based index of the current question; it equals the
// number of questions once all are answered
func (s *Session) Index() int {
	return s.index
}

// Pending reports whether answers were sent and no result has arrived
func (s *Session) Pending() bool {
	return s.pending
}

// Done reports whether the result has been received
func (s *Session) Done() bool {
	return s.done
}

// Answers returns a copy of the answers given so far
func (s *Session) Answers() []string {
	return append([]string(nil), s.answers...)
}

// History returns a copy of the chat history
func (s *Session) History() []Entry {
	return append([]Entry(nil), s.history...)
}

// AnswerMap pairs each answered question with its answer
func (s *Session) AnswerMap() map[string]string {
	m := make(map[string]string, len(s.answers))
	for i, a := range s.answers {
		m[s.questions[i]] = a
	}
	return m
}

// SubmitAnswer records text as the answer to the current question and asks the
// next one. On the last question the full answer list is sent and the session
// becomes pending.
func (s *Session) SubmitAnswer(text string) error {
	switch {
	case s.done:
		return ErrComplete
	case s.pending:
		return ErrPending
	case strings.TrimSpace(text) == "":
		return ErrEmptyAnswer
	}

	if s.index < len(s.questions)-1 {
		s.answers = append(s.answers, text)
		s.index++
		s.history = append(s.history,
			Entry{Sender: SenderUser, Message: text},
			Entry{Sender: SenderBot, Message: s.questions[s.index]},
		)
		return nil
	}

	answers := append(s.Answers(), text)
	answerMap := s.AnswerMap()
	answerMap[s.questions[s.index]] = text
	if err := s.sender.SendAnswers(answers, answerMap); err != nil {
		return fmt.Errorf("could not send answers: %w", err)
	}

	s.answers = answers
	s.history = append(s.history,
		Entry{Sender: SenderUser, Message: text},
		Entry{Sender: SenderBot, Message: AnalyzingMessage},
	)
	s.index++
	s.pending = true
	return nil
}

// OnResultReceived ends the pending state and adds the relay's result to the history verbatim
func (s *Session) OnResultReceived(result relay.Questions) {
	s.pending = false
	s.done = true
	s.history = append(s.history,
		Entry{Sender: SenderBot, Message: ResultsMessage},
		Entry{Sender: SenderBot, Message: result.String()},
	)
}

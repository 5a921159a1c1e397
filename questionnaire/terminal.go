package questionnaire

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/korylprince/questionnaire-relay/relay"
)

// ErrInputClosed is returned when input ends before the questionnaire is complete
var ErrInputClosed = errors.New("input closed before the questionnaire was complete")

// ResultSource blocks until the relay delivers generated questions
type ResultSource interface {
	AwaitResult(onEvent func(relay.ServerMessage)) (relay.Questions, error)
}

// Terminal drives a Session from line-based input and renders the chat to Out
type Terminal struct {
	Session *Session
	Results ResultSource
	In      io.Reader
	Out     io.Writer

	printed int
}

func (t *Terminal) say(sender Sender, msg string) {
	label := ancli.ColoredMessage(ancli.CYAN, string(sender))
	if sender == SenderUser {
		label = ancli.ColoredMessage(ancli.BLUE, string(sender))
	}
	fmt.Fprintf(t.Out, "%v: %v\n", label, msg)
}

// flush prints history entries added since the last flush. User entries were
// typed by the user and are not echoed.
func (t *Terminal) flush() {
	history := t.Session.History()
	for _, e := range history[t.printed:] {
		if e.Sender == SenderBot {
			t.say(e.Sender, e.Message)
		}
	}
	t.printed = len(history)
}

// Run asks every question, submits the answers, and prints the result
func (t *Terminal) Run() error {
	reader := bufio.NewReader(t.In)
	t.flush()

	for !t.Session.Done() {
		if t.Session.Pending() {
			// no input is read while pending
			q, err := t.Results.AwaitResult(func(msg relay.ServerMessage) {
				if misc.Truthy(os.Getenv("DEBUG")) {
					ancli.PrintOK(fmt.Sprintf("relay event: %s %s\n", msg.Event, string(msg.Data)))
				}
			})
			if err != nil {
				return err
			}
			t.Session.OnResultReceived(q)
			t.flush()
			continue
		}

		fmt.Fprintf(t.Out, "%v: ", ancli.ColoredMessage(ancli.BLUE, string(SenderUser)))

		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return ErrInputClosed
			}
			return fmt.Errorf("error reading input: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")

		if err := t.Session.SubmitAnswer(line); err != nil {
			if errors.Is(err, ErrEmptyAnswer) {
				fmt.Fprintln(t.Out, "Please type an answer.")
				continue
			}
			return err
		}
		t.flush()
	}

	return nil
}

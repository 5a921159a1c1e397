package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/baalimago/go_away_boilerplate/pkg/shutdown"
	"github.com/korylprince/questionnaire-relay/questionnaire"
)

func main() {
	server := flag.String("server", "http://localhost:3000", "Relay URL (http/https)")
	questionsFile := flag.String("questions", "", "YAML question list (optional)")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	go func() { shutdown.MonitorV2(ctx, cancel) }()

	err := run(ctx, *server, *questionsFile)
	cancel()

	switch {
	case errors.Is(err, context.Canceled):
		fmt.Println("\nGoodbye!")
	case err != nil:
		ancli.PrintErr(fmt.Sprintf("%v\n", err))
		os.Exit(1)
	case misc.Truthy(os.Getenv("DEBUG")):
		ancli.PrintOK("questionnaire complete. Bye bye!\n")
	}
}

// run walks the user through the questionnaire and returns once the result
// is printed, the terminal fails, or ctx is cancelled
func run(ctx context.Context, server, questionsFile string) error {
	questions, err := questionnaire.LoadQuestions(questionsFile)
	if err != nil {
		return fmt.Errorf("failed to load questions: %w", err)
	}

	client, err := questionnaire.Dial(ctx, questionnaire.SocketURL(server), nil)
	if err != nil {
		return err
	}
	defer client.Close()

	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintOK(fmt.Sprintf("connected to %s\n", server))
	}

	session, err := questionnaire.NewSession(questions, client)
	if err != nil {
		return fmt.Errorf("failed to start questionnaire: %w", err)
	}

	term := &questionnaire.Terminal{Session: session, Results: client, In: os.Stdin, Out: os.Stdout}

	// the terminal may be blocked reading stdin, so it is not waited on after cancellation
	errCh := make(chan error, 1)
	go func() { errCh <- term.Run() }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("questionnaire stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/korylprince/questionnaire-relay/httpapi"
	"github.com/korylprince/questionnaire-relay/logging"
	"github.com/korylprince/questionnaire-relay/questionnaire"
	"github.com/korylprince/questionnaire-relay/relay"
	"go.uber.org/zap"
)

func main() {
	logger := logging.Init(logging.Options{File: config.LogFile, Debug: config.Debug})
	defer logger.Sync()

	questions, err := questionnaire.LoadQuestions(config.QuestionsFile)
	if err != nil {
		logger.Fatal("Could not load questions", zap.Error(err))
	}

	gen := relay.NewAIClient(config.AIEndpoint, config.AIModel, config.AIKey)

	socket := relay.NewHandler(relay.NewMemoryStore(), gen,
		relay.WithTimeout(config.Timeout()),
		relay.WithAllowedOrigin(config.AllowedOrigin),
	)

	r := httpapi.NewRouter(socket, httpapi.Config{
		AllowedOrigin: config.AllowedOrigin,
		Questions:     questions,
	})

	srv := &http.Server{Addr: config.ListenAddr, Handler: r}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Could not shut down cleanly", zap.Error(err))
		}
	}()

	logger.Info("Listening",
		zap.String("addr", config.ListenAddr),
		zap.String("model", config.AIModel),
		zap.Int("questions", len(questions)),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server stopped", zap.Error(err))
	}
	logger.Info("Server stopped")
}

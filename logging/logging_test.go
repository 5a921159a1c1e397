package logging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContextAddsSessionID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := Logger
	Logger = zap.New(core)
	t.Cleanup(func() { Logger = prev })

	ctx := WithSessionID(context.Background(), "abc")
	FromContext(ctx).Info("hello")
	FromContext(context.Background()).Info("bare")

	entries := logs.All()
	testboil.FailTestIfDiff(t, len(entries), 2)
	if got := entries[0].ContextMap()["session_id"]; got != "abc" {
		t.Errorf("expected session_id abc, got %v", got)
	}
	if _, ok := entries[1].ContextMap()["session_id"]; ok {
		t.Error("expected no session_id on log line without session")
	}
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.log")
	l := NewLogger(Options{File: path})
	l.Info("to file", zap.String("k", "v"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("could not read log file: %v", err)
	}
	testboil.AssertStringContains(t, string(data), `"msg":"to file"`)
	testboil.AssertStringContains(t, string(data), `"k":"v"`)
}

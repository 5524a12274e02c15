package main

import (
	"context"
	"strings"
	"testing"

	"github.com/lawnchairsociety/dungeongen/internal/config"
)

func TestRunUnknownMode(t *testing.T) {
	err := run(context.Background(), config.DefaultConfig(), viewRequest{mode: "gui"})
	if err == nil || !strings.Contains(err.Error(), "unknown -mode") {
		t.Errorf("run() error = %v, want unknown mode", err)
	}
}

func TestRunRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name string
		req  viewRequest
	}{
		{"wfc mode", viewRequest{mode: "tui", wfc: "sometimes"}},
		{"missing file", viewRequest{mode: "tui", file: "/nonexistent/level.yaml"}},
		{"unknown preset", viewRequest{mode: "tui", depth: 1, algorithm: "no_such_preset", seed: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(context.Background(), config.DefaultConfig(), tt.req); err == nil {
				t.Error("run() should fail before opening the terminal")
			}
		})
	}
}

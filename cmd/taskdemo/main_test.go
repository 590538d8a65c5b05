package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/phrazzld/tasktracker/internal/config"
	"github.com/phrazzld/tasktracker/internal/updater"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Walkthrough(t *testing.T) {
	var out bytes.Buffer
	cfg := config.UpdaterConfig{WorkerCount: 4, QueueSize: 8, MaxDelay: 5 * time.Millisecond}

	err := run(context.Background(), &out, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	expected := "Tasks in progress:\n" +
		"Exercise\n" +
		"Clean house\n" +
		"Task statuses updated to 'done'\n" +
		"Action performed on: Buy groceries\n" +
		"Action performed on: Read book\n" +
		"Action performed on: Exercise\n" +
		"Action performed on: Clean house\n"
	assert.Equal(t, expected, out.String())
}

func TestRun_DeadlineExceeded(t *testing.T) {
	var out bytes.Buffer
	cfg := config.UpdaterConfig{
		WorkerCount: 4,
		QueueSize:   8,
		MinDelay:    time.Second,
		MaxDelay:    time.Second,
		Deadline:    10 * time.Millisecond,
	}

	err := run(context.Background(), &out, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorIs(t, err, updater.ErrDeadlineExceeded)
	assert.NotContains(t, out.String(), "Task statuses updated")
}

func TestRun_LogsDrainTimeout(t *testing.T) {
	original := drainTimeout
	drainTimeout = 10 * time.Millisecond
	t.Cleanup(func() { drainTimeout = original })

	var logs bytes.Buffer
	cfg := config.UpdaterConfig{
		WorkerCount: 1,
		QueueSize:   8,
		MinDelay:    time.Second,
		MaxDelay:    time.Second,
		Deadline:    10 * time.Millisecond,
	}

	err := run(context.Background(), io.Discard, cfg, slog.New(slog.NewJSONHandler(&logs, nil)))
	assert.ErrorIs(t, err, updater.ErrDeadlineExceeded)
	assert.Contains(t, logs.String(), "Error draining completion pool")
	assert.Contains(t, logs.String(), context.DeadlineExceeded.Error())
}

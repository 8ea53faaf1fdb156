package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitFor(t *testing.T) {
	originalSleep := sleep
	defer func() { sleep = originalSleep }()

	var slept time.Duration
	sleep = func(d time.Duration) { slept = d }

	if err := WaitFor(context.Background(), 500*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slept != 500*time.Millisecond {
		t.Fatalf("expected to sleep 500ms, got %s", slept)
	}
}

func TestWaitForZeroDuration(t *testing.T) {
	originalSleep := sleep
	defer func() { sleep = originalSleep }()

	sleep = func(time.Duration) { t.Fatal("sleep must not be called for zero duration") }

	if err := WaitFor(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaitForCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WaitFor(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

package pkgroutine

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
)

func TestNewManagerDefaultMax(t *testing.T) {
	mgr := NewManager(0)
	if got := cap(mgr.sema); got != DefaultMaxGoroutine {
		t.Fatalf("expected cap %d, got %d", DefaultMaxGoroutine, got)
	}
}

func TestManagerCollectsErrors(t *testing.T) {
	mgr := NewManager(2)
	errOne := errors.New("one")
	errTwo := errors.New("two")

	mgr.Go(context.Background(), "first", func(ctx context.Context) error {
		return errOne
	})
	mgr.Go(context.Background(), "second", func(ctx context.Context) error {
		return errTwo
	})

	joined := mgr.Wait()
	if joined == nil {
		t.Fatalf("expected errors")
	}
	if !errors.Is(joined, errOne) || !errors.Is(joined, errTwo) {
		t.Fatalf("expected both errors, got %v", joined)
	}
	if !strings.Contains(joined.Error(), "first: one") {
		t.Fatalf("expected task name in error, got %q", joined.Error())
	}
}

func TestManagerRecoversPanics(t *testing.T) {
	mgr := NewManager(1)
	mgr.Go(context.Background(), "boom", func(ctx context.Context) error {
		panic("boom")
	})

	err := mgr.Wait()
	if !errors.Is(err, ErrPanic) {
		t.Fatalf("expected ErrPanic, got %v", err)
	}
}

func TestManagerSkipsCanceledContext(t *testing.T) {
	mgr := NewManager(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	mgr.Go(ctx, "skipped", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})

	if err := mgr.Wait(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if ran.Load() {
		t.Fatal("expected task not to run on canceled context")
	}
}

func TestManagerDropsAfterWait(t *testing.T) {
	mgr := NewManager(1)
	if err := mgr.Wait(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	var ran atomic.Bool
	mgr.Go(context.Background(), "late", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})

	if err := mgr.Wait(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if ran.Load() {
		t.Fatal("expected task scheduled after wait not to run")
	}
	if got := len(mgr.sema); got != 0 {
		t.Fatalf("expected slot released, got %d in use", got)
	}
}

package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

type fakeLocker struct {
	held      bool
	err       error
	unlocks   int
	unlockErr error // ctx.Err() observed at unlock time
}

func (l *fakeLocker) TryLock(ctx context.Context, job string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	return !l.held, nil
}

func (l *fakeLocker) Unlock(ctx context.Context, job string) error {
	l.unlocks++
	l.unlockErr = ctx.Err()
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunnerSkipsWhenLockHeld(t *testing.T) {
	lock := &fakeLocker{held: true}
	r := NewRunner(lock, time.Second, discardLogger())

	ran := false
	r.Func(Job{Name: "heartbeat", Run: func(context.Context) error {
		ran = true
		return nil
	}})()

	if ran {
		t.Fatal("job ran while lock was held")
	}
	if lock.unlocks != 0 {
		t.Fatal("unlocked a lock it never acquired")
	}
}

func TestRunnerRunsWhenLockStoreDown(t *testing.T) {
	lock := &fakeLocker{err: errors.New("redis down")}
	r := NewRunner(lock, time.Second, discardLogger())

	ran := false
	r.Func(Job{Name: "heartbeat", Run: func(context.Context) error {
		ran = true
		return nil
	}})()

	if !ran {
		t.Fatal("job must run when the lock store is unavailable")
	}
}

func TestRunnerReleasesLockAndSurvivesFailure(t *testing.T) {
	lock := &fakeLocker{}
	r := NewRunner(lock, time.Second, discardLogger())

	r.Func(Job{Name: "report", Run: func(context.Context) error {
		return errors.New("boom")
	}})()

	if lock.unlocks != 1 {
		t.Fatalf("unlocks = %d, want 1", lock.unlocks)
	}
}

func TestRunnerUnlocksOnLiveContextAfterTimeout(t *testing.T) {
	lock := &fakeLocker{}
	r := NewRunner(lock, 10*time.Millisecond, discardLogger())

	// job burns its whole deadline
	r.Func(Job{Name: "report", Run: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})()

	if lock.unlocks != 1 {
		t.Fatalf("unlocks = %d, want 1", lock.unlocks)
	}
	if lock.unlockErr != nil {
		t.Fatalf("unlock ran on a dead context: %v", lock.unlockErr)
	}
}

func TestRunnerNilLocker(t *testing.T) {
	r := NewRunner(nil, time.Second, discardLogger())
	ran := false
	r.Func(Job{Name: "heartbeat", Run: func(context.Context) error {
		ran = true
		return nil
	}})()
	if !ran {
		t.Fatal("job did not run")
	}
}

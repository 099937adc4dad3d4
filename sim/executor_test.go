package sim

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExecutor_RunsSubmittedTasks(t *testing.T) {
	e := NewExecutor(16)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx, 2) }()

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[int]bool)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		i := i
		e.Submit(func() {
			defer wg.Done()
			mu.Lock()
			seen[i] = true
			mu.Unlock()
		})
	}

	wg.Wait()
	assert.Len(t, seen, 10)

	e.Close()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestExecutor_SubmitAfterCloseIsNoop(t *testing.T) {
	e := NewExecutor(1)
	e.Close()

	done := make(chan struct{})
	go func() {
		e.Submit(func() {})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked after Close")
	}
}

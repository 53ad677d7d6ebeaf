package scheduler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRunner counts cycles and fails or panics on demand.
type stubRunner struct {
	mu         sync.Mutex
	calls      int
	panicFirst bool
	err        error
}

func (r *stubRunner) RunCycle(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.panicFirst && r.calls == 1 {
		panic("cycle blew up")
	}
	return r.err
}

func (r *stubRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestRegisterRejectsBadExpression(t *testing.T) {
	s := New(context.Background(), &stubRunner{})
	assert.Error(t, s.Register("not a cron expression"))
	assert.NoError(t, s.Register("0 0 * * * *"))
}

func TestRunNow(t *testing.T) {
	runner := &stubRunner{}
	s := New(context.Background(), runner)

	require.NoError(t, s.RunNow())
	assert.Equal(t, 1, runner.callCount())

	runner.err = fmt.Errorf("cycle failed")
	assert.Error(t, s.RunNow())
}

func TestScheduledCyclePanicIsRecovered(t *testing.T) {
	runner := &stubRunner{panicFirst: true}
	s := New(context.Background(), runner)
	require.NoError(t, s.Register("* * * * * *"))

	s.Start()
	defer s.Stop()

	// The first firing panics; a second firing proves the scheduler
	// recovered and kept running.
	require.Eventually(t, func() bool {
		return runner.callCount() >= 2
	}, 5*time.Second, 50*time.Millisecond)
}

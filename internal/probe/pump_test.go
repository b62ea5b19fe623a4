package probe

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRxPump_OneReadPerSignal(t *testing.T) {
	p := newRxPump()
	var reads atomic.Int32
	go p.run(4, func(buf []byte) (int, error) {
		reads.Add(1)
		buf[0] = byte(reads.Load())
		return 1, nil
	})
	defer func() {
		p.shutdown()
		p.wait()
	}()

	require.NoError(t, p.signal())
	require.NoError(t, p.signal())

	for i := 1; i <= 2; i++ {
		pkt, err := p.pop(context.Background())
		require.NoError(t, err)
		assert.Equal(t, byte(i), pkt[0])
	}

	// No further signal, so no further read may be issued.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(2), reads.Load())
}

func TestRxPump_SignalOverflow(t *testing.T) {
	p := newRxPump()
	// The pump is not running, so tokens accumulate until the slot count
	// is exhausted.
	for i := 0; i < queueCapacity; i++ {
		require.NoError(t, p.signal())
	}
	assert.ErrorIs(t, p.signal(), ErrTooManyPending)
}

func TestRxPump_QueueOverflowIsFatal(t *testing.T) {
	p := newRxPump()
	go p.run(1, func(buf []byte) (int, error) { return 1, nil })

	// Push one more response through than the queue can hold without a
	// single pop; the pump must stop instead of growing the queue.
	for i := 0; i < queueCapacity+1; i++ {
		for p.signal() != nil {
			if p.stopped() {
				break
			}
			time.Sleep(time.Millisecond)
		}
	}

	require.Eventually(t, p.stopped, 2*time.Second, time.Millisecond)
	p.wait()
	assert.ErrorIs(t, p.failure(), ErrQueueOverflow)
}

func TestRxPump_ReadErrorStopsPump(t *testing.T) {
	p := newRxPump()
	readErr := errors.New("pipe error")
	go p.run(1, func(buf []byte) (int, error) { return 0, readErr })

	require.NoError(t, p.signal())
	p.wait()

	assert.ErrorIs(t, p.failure(), readErr)
	_, err := p.pop(context.Background())
	assert.ErrorIs(t, err, readErr)
}

func TestRxPump_ShutdownWithoutSignal(t *testing.T) {
	p := newRxPump()
	go p.run(1, func(buf []byte) (int, error) {
		t.Error("read issued without a signal")
		return 0, nil
	})

	p.shutdown()

	finished := make(chan struct{})
	go func() {
		p.wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("pump did not observe shutdown")
	}

	_, err := p.pop(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRxPump_PopHonoursContext(t *testing.T) {
	p := newRxPump()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.pop(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

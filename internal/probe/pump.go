package probe

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// queueCapacity bounds the receive queue and, with it, the number of
// outstanding requests. A well-behaved probe answers every request with
// exactly one report, so the queue only fills when the caller pipelines
// requests; it only overflows when the device breaks the protocol.
const queueCapacity = 64

// rxPump gates hardware reads behind write-issued signals: one blocking
// read is performed per signal, so the pump never reads speculatively
// ahead of the writer. Received packets are handed to the consumer in
// arrival order.
type rxPump struct {
	pending  chan struct{} // one token per expected response
	packets  chan []byte   // received reports, oldest first
	done     chan struct{} // closed to stop the pump
	finished chan struct{} // closed when the pump goroutine exits
	stop     sync.Once

	mu  sync.Mutex
	err error
}

func newRxPump() *rxPump {
	return &rxPump{
		pending:  make(chan struct{}, queueCapacity),
		packets:  make(chan []byte, queueCapacity),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// run executes the receive loop until shutdown or failure. read must block
// until the device sends a report and return the error already classified.
func (p *rxPump) run(packetSize int, read func(buf []byte) (int, error)) {
	defer close(p.finished)
	for {
		select {
		case <-p.done:
			return
		case <-p.pending:
		}
		// A shutdown can race the signal; recheck before touching hardware.
		select {
		case <-p.done:
			return
		default:
		}

		buf := make([]byte, packetSize)
		n, err := read(buf)
		if err != nil {
			p.fail(err)
			return
		}

		select {
		case p.packets <- buf[:n]:
		default:
			p.fail(ErrQueueOverflow)
			return
		}
	}
}

// signal arms the pump for one response read. It must be called before the
// corresponding request is put on the wire, so the pump is already
// listening when the device answers.
func (p *rxPump) signal() error {
	select {
	case p.pending <- struct{}{}:
		return nil
	default:
		return ErrTooManyPending
	}
}

// pop removes and returns the oldest received packet, blocking until one
// is available, the context is cancelled or the pump has stopped.
func (p *rxPump) pop(ctx context.Context) ([]byte, error) {
	if p.stopped() {
		return nil, p.failure()
	}
	select {
	case pkt := <-p.packets:
		return pkt, nil
	case <-p.done:
		return nil, p.failure()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// shutdown wakes the pump unconditionally, even when no read is pending,
// so it can observe closure instead of blocking forever. It does not
// cancel an in-flight hardware read; use wait to join the pump.
func (p *rxPump) shutdown() {
	p.stop.Do(func() { close(p.done) })
}

// wait blocks until the pump goroutine has exited.
func (p *rxPump) wait() {
	<-p.finished
}

func (p *rxPump) stopped() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// failure returns the error that stopped the pump, or ErrClosed after a
// clean shutdown.
func (p *rxPump) failure() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	return ErrClosed
}

func (p *rxPump) fail(err error) {
	p.mu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.mu.Unlock()
	log.Error().Err(err).Msg("Receive pump stopped")
	p.shutdown()
}

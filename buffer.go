package bufferstream

import (
	"io"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type phase int

const (
	phaseCollecting phase = iota
	phaseTransforming
	phaseReplaying
	phaseFailed
)

// codec describes how a mode turns buffered elements of type T into the
// payload P handed to the transform, and a replacement payload back into
// elements.
type codec[T, P any] struct {
	mode     Mode
	coalesce func([]T) P
	expand   func(P) []T
	size     func(P) int
}

// buffer is the state shared by both stream front-ends. Elements are
// collected until the input ends or an error arrives, handed once to the
// transform, and the replacement is drained by readers.
type buffer[T, P any] struct {
	codec     codec[T, P]
	transform CallbackFunc[P]
	cfg       config
	log       zerolog.Logger
	id        string

	readerWait sync.Cond
	mu         sync.Mutex

	chunks *queue[T]
	phase  phase
	ready  chan struct{}

	// pending holds the first error seen while the transform runs.
	pending error
	err     error

	readerClosedErr error
	writerClosed    bool
	readerClosed    bool
	notified        bool
}

func newBuffer[T, P any](fn any, c codec[T, P], opts []Option) (*buffer[T, P], error) {
	cfg := parseConfig(opts)
	transform, err := normalize[P](cfg.ctx, fn)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	b := &buffer[T, P]{
		codec:     c,
		transform: transform,
		cfg:       cfg,
		log:       cfg.logger.With().Str("stream", id).Stringer("mode", c.mode).Logger(),
		id:        id,
		chunks:    newQueue[T](nil),
		ready:     make(chan struct{}),
	}
	b.readerWait.L = &b.mu
	return b, nil
}

func (b *buffer[T, P]) push(v T) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.readerClosed {
		if b.readerClosedErr != nil {
			return b.readerClosedErr
		}
		return io.ErrClosedPipe
	}
	if b.writerClosed || b.phase != phaseCollecting {
		return io.ErrClosedPipe
	}
	b.chunks.push(v)
	return nil
}

// consume blocks until replay has started, then lets take drain the queue
// under the lock. take is only called with a non-empty queue.
func (b *buffer[T, P]) consume(take func(*queue[T])) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for {
		if b.readerClosed {
			return io.ErrClosedPipe
		}
		switch b.phase {
		case phaseFailed:
			return b.err
		case phaseReplaying:
			if b.chunks.empty() {
				return io.EOF
			}
			take(b.chunks)
			return nil
		}
		b.readerWait.Wait()
	}
}

// closeWrite ends the input. The first call starts the handoff unless an
// earlier error already did; err is the upstream failure, if any.
func (b *buffer[T, P]) closeWrite(err error) {
	b.mu.Lock()
	first := !b.writerClosed
	b.writerClosed = true
	var terminal error
	switch {
	case first && b.phase == phaseCollecting:
		b.handoffLocked(err)
	case err != nil:
		terminal = b.faultLocked(err, "upstream")
	}
	b.mu.Unlock()
	b.notify(terminal)
}

func (b *buffer[T, P]) closeRead(err error) {
	b.mu.Lock()
	if b.readerClosed {
		b.mu.Unlock()
		return
	}
	b.readerClosed = true
	b.readerClosedErr = err
	b.readerWait.Broadcast()
	var terminal error
	if err != nil {
		terminal = b.faultLocked(err, "downstream")
	}
	b.mu.Unlock()
	b.notify(terminal)
}

// faultLocked folds err into the stream according to its phase and returns
// a newly terminal error that the caller must report after unlocking.
func (b *buffer[T, P]) faultLocked(err error, origin string) error {
	switch b.phase {
	case phaseCollecting:
		b.handoffLocked(err)
	case phaseTransforming:
		if b.pending == nil {
			b.pending = err
		}
		b.log.Debug().Err(err).Str("origin", origin).Msg("error held while transform runs")
	case phaseReplaying:
		if b.cfg.strict {
			return b.failLocked(err)
		}
		b.log.Warn().Err(err).Str("origin", origin).Msg("error after completion suppressed")
	default:
		b.log.Debug().Err(err).Str("origin", origin).Msg("error after failure ignored")
	}
	return nil
}

func (b *buffer[T, P]) handoffLocked(err error) {
	b.phase = phaseTransforming
	n := b.chunks.len()
	payload := b.codec.coalesce(b.chunks.items())
	b.chunks = newQueue[T](nil)
	b.log.Debug().Err(err).Int("chunks", n).Int("size", b.codec.size(payload)).Msg("transform handoff")
	go b.run(err, payload)
}

func (b *buffer[T, P]) run(err error, payload P) {
	var called atomic.Bool
	done := func(err error, out P) {
		if !called.CompareAndSwap(false, true) {
			b.log.Warn().Err(err).Msg("transform continuation called more than once")
			return
		}
		b.complete(err, out)
	}
	defer func() {
		if r := recover(); r != nil {
			var zero P
			done(&PanicError{Value: r, Stack: string(debug.Stack())}, zero)
		}
	}()
	b.transform(err, payload, done)
}

func (b *buffer[T, P]) complete(err error, out P) {
	b.mu.Lock()
	var terminal error
	switch {
	case err != nil:
		terminal = b.failLocked(err)
	case b.pending != nil && b.cfg.strict:
		terminal = b.failLocked(b.pending)
	default:
		if b.pending != nil {
			b.log.Warn().Err(b.pending).Msg("error during transform suppressed")
		}
		b.chunks = newQueue(b.codec.expand(out))
		b.phase = phaseReplaying
		b.log.Debug().Int("chunks", b.chunks.len()).Int("size", b.codec.size(out)).Msg("transform complete")
		b.closeReadyLocked()
		b.readerWait.Broadcast()
	}
	b.pending = nil
	b.mu.Unlock()
	b.notify(terminal)
}

// failLocked makes err terminal. It returns err the first time the stream
// fails and nil afterwards, so the error handler fires once.
func (b *buffer[T, P]) failLocked(err error) error {
	b.phase = phaseFailed
	b.err = err
	b.chunks = newQueue[T](nil)
	b.closeReadyLocked()
	b.readerWait.Broadcast()
	if b.notified {
		return nil
	}
	b.notified = true
	return err
}

func (b *buffer[T, P]) closeReadyLocked() {
	select {
	case <-b.ready:
	default:
		close(b.ready)
	}
}

func (b *buffer[T, P]) notify(err error) {
	if err == nil {
		return
	}
	b.log.Error().Err(err).Msg("stream failed")
	if b.cfg.onError != nil {
		b.cfg.onError(err)
	}
}

func (b *buffer[T, P]) terminalErr() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

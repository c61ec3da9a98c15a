package bufferstream

import (
	"context"

	"github.com/rs/zerolog"
)

const (
	defaultCopyBufferSize = 32 * 1024
	defaultItemCapacity   = 16
)

// Mode selects how the buffered chunks are coalesced into the payload
// handed to the transform.
type Mode int

const (
	// Binary concatenates byte chunks into one contiguous payload.
	Binary Mode = iota
	// Items hands the ordered item list to the transform as is.
	Items
)

func (m Mode) String() string {
	switch m {
	case Binary:
		return "binary"
	case Items:
		return "items"
	default:
		return "unknown"
	}
}

// Option configures a stream.
type Option func(*config)

type config struct {
	ctx           context.Context
	logger        zerolog.Logger
	onError       func(error)
	highWaterMark int
	strict        bool
}

func parseConfig(opts []Option) config {
	c := config{
		ctx:    context.Background(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c *config) copyBufferSize() int {
	if c.highWaterMark > 0 {
		return c.highWaterMark
	}
	return defaultCopyBufferSize
}

func (c *config) itemCapacity() int {
	if c.highWaterMark > 0 {
		return c.highWaterMark
	}
	return defaultItemCapacity
}

// WithLogger sets the logger used for handoff, completion and suppressed errors.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithHighWaterMark sets the copy buffer size used by WriteTo and ReadFrom
// (32 KiB by default), and the capacity of the channel returned by
// ItemStream.Out (16 by default). Values <= 0 are ignored.
func WithHighWaterMark(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.highWaterMark = n
		}
	}
}

// WithStrictErrors makes errors that arrive while the transform is running,
// or after it completed, terminal. By default such errors are logged and dropped
// because the transform cannot be invoked a second time to handle them.
func WithStrictErrors() Option {
	return func(c *config) {
		c.strict = true
	}
}

// WithErrorHandler registers fn to be called once with the terminal error
// of the stream. fn runs on the goroutine that caused the failure and must not
// block on the stream itself.
func WithErrorHandler(fn func(error)) Option {
	return func(c *config) {
		c.onError = fn
	}
}

// WithContext sets the context passed to context-aware transforms.
// The stream itself never cancels a running transform.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

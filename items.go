package bufferstream

import (
	"context"
	"io"
	"iter"
	"slices"
)

func itemsCodec[T any]() codec[T, []T] {
	return codec[T, []T]{
		mode: Items,
		coalesce: func(items []T) []T {
			return items
		},
		expand: func(items []T) []T {
			return slices.Clone(items)
		},
		size: func(items []T) int {
			return len(items)
		},
	}
}

// ItemStream buffers discrete items instead of bytes. The transform receives
// the items in send order and returns the items to replay.
//
// ItemStream is safe for concurrent use by one producer and one consumer.
type ItemStream[T any] struct {
	b *buffer[T, []T]
}

// NewItems creates an item stream. fn must be one of:
//
//	func([]T) ([]T, error)
//	func(context.Context, []T) ([]T, error)
//	Func[[]T]
//	func(error, []T, Done[[]T])
//	func(error, []T, func(error, []T))
//	CallbackFunc[[]T]
//
// Any other value, including a nil function, fails with ErrBadCallback.
func NewItems[T any](fn any, opts ...Option) (*ItemStream[T], error) {
	b, err := newBuffer(fn, itemsCodec[T](), opts)
	if err != nil {
		return nil, err
	}
	return &ItemStream[T]{b: b}, nil
}

// Send appends v. It never blocks on the reader.
func (s *ItemStream[T]) Send(v T) error {
	return s.b.push(v)
}

// SendAll sends every item of seq, stopping at the first error.
func (s *ItemStream[T]) SendAll(seq iter.Seq[T]) error {
	for v := range seq {
		if err := s.Send(v); err != nil {
			return err
		}
	}
	return nil
}

// Close signals the end of the input and starts the transform.
func (s *ItemStream[T]) Close() error {
	s.b.closeWrite(nil)
	return nil
}

// CloseWithError ends the input with an upstream failure.
func (s *ItemStream[T]) CloseWithError(err error) error {
	s.b.closeWrite(err)
	return nil
}

// CloseRead closes the read side; see Stream.CloseRead.
func (s *ItemStream[T]) CloseRead(err error) error {
	s.b.closeRead(err)
	return nil
}

// Next blocks until the transform has completed and returns the next item.
// It returns io.EOF after the last item.
func (s *ItemStream[T]) Next() (T, error) {
	var v T
	err := s.b.consume(func(q *queue[T]) {
		v = q.pop()
	})
	return v, err
}

// All returns an iterator over the remaining items. A terminal error is
// yielded once as the last pair; io.EOF is not.
func (s *ItemStream[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, err := s.Next()
			if err == io.EOF {
				return
			}
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// Out returns a channel carrying the remaining items. Its capacity is the
// high-water mark. The channel is closed after the last item, on failure or
// when ctx is done; Err reports the terminal error.
func (s *ItemStream[T]) Out(ctx context.Context) <-chan T {
	out := make(chan T, s.b.cfg.itemCapacity())
	go func() {
		defer close(out)
		select {
		case <-s.b.ready:
		case <-ctx.Done():
			return
		}
		for {
			v, err := s.Next()
			if err != nil {
				return
			}
			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Ready returns a channel closed once the transform has completed
// or the stream has failed.
func (s *ItemStream[T]) Ready() <-chan struct{} {
	return s.b.ready
}

// Err returns the terminal error, if any.
func (s *ItemStream[T]) Err() error {
	return s.b.terminalErr()
}

// ID returns the identifier used in the stream's log entries.
func (s *ItemStream[T]) ID() string {
	return s.b.id
}

// Mode returns Items.
func (s *ItemStream[T]) Mode() Mode {
	return s.b.codec.mode
}

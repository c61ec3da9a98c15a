package bufferstream

import (
	"context"
)

// Done resumes a stream suspended in its transform handoff. A non-nil err
// fails the stream; otherwise payload replaces the buffered content.
// A nil payload replaces it with nothing. Only the first call has an effect.
type Done[P any] func(err error, payload P)

// Func is the simple transform shape: it receives the whole payload and
// returns its replacement.
type Func[P any] func(ctx context.Context, payload P) (P, error)

// CallbackFunc is the continuation transform shape. err carries an upstream
// or downstream failure captured before the handoff, giving the transform a
// chance to recover by calling done with a nil error. The transform may call
// done from any goroutine, at any later time.
type CallbackFunc[P any] func(err error, payload P, done Done[P])

// normalize maps every accepted transform shape onto CallbackFunc.
// P is []byte for binary streams and []T for item streams.
func normalize[P any](ctx context.Context, fn any) (CallbackFunc[P], error) {
	switch f := fn.(type) {
	case CallbackFunc[P]:
		if f != nil {
			return f, nil
		}
	case func(error, P, Done[P]):
		if f != nil {
			return f, nil
		}
	case func(error, P, func(error, P)):
		if f != nil {
			return func(err error, payload P, done Done[P]) {
				f(err, payload, done)
			}, nil
		}
	case Func[P]:
		if f != nil {
			return wrapFunc[P](ctx, f), nil
		}
	case func(context.Context, P) (P, error):
		if f != nil {
			return wrapFunc[P](ctx, f), nil
		}
	case func(P) (P, error):
		if f != nil {
			return wrapFunc[P](ctx, func(_ context.Context, payload P) (P, error) {
				return f(payload)
			}), nil
		}
	}
	return nil, badCallback(fn)
}

// wrapFunc adapts the simple shape. It cannot observe a pending error,
// so one is forwarded as is and f is not called.
func wrapFunc[P any](ctx context.Context, f Func[P]) CallbackFunc[P] {
	return func(err error, payload P, done Done[P]) {
		if err != nil {
			var zero P
			done(err, zero)
			return
		}
		out, err := f(ctx, payload)
		done(err, out)
	}
}

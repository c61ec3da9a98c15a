package bufferstream

import (
	"bytes"
	"io"
)

var (
	_ io.Reader     = (*Stream)(nil)
	_ io.WriterTo   = (*Stream)(nil)
	_ io.Writer     = (*Stream)(nil)
	_ io.ReaderFrom = (*Stream)(nil)
	_ io.Closer     = (*Stream)(nil)
)

var binaryCodec = codec[[]byte, []byte]{
	mode: Binary,
	coalesce: func(chunks [][]byte) []byte {
		return bytes.Join(chunks, nil)
	},
	expand: func(p []byte) [][]byte {
		if len(p) == 0 {
			return nil
		}
		return [][]byte{p}
	},
	size: func(p []byte) int {
		return len(p)
	},
}

// Stream is a binary buffering stream. Everything written to it is
// collected until Close, concatenated and handed to the transform once.
// Reads block until the transform completes and then return its result.
//
// Stream is safe for concurrent use by one producer and one consumer.
type Stream struct {
	b *buffer[[]byte, []byte]
}

// New creates a binary stream. fn must be one of:
//
//	func([]byte) ([]byte, error)
//	func(context.Context, []byte) ([]byte, error)
//	Func[[]byte]
//	func(error, []byte, Done[[]byte])
//	func(error, []byte, func(error, []byte))
//	CallbackFunc[[]byte]
//
// Any other value, including a nil function, fails with ErrBadCallback.
func New(fn any, opts ...Option) (*Stream, error) {
	b, err := newBuffer(fn, binaryCodec, opts)
	if err != nil {
		return nil, err
	}
	return &Stream{b: b}, nil
}

// Write appends a copy of p to the buffer. It never blocks on the reader.
// Writes after Close or CloseRead fail with io.ErrClosedPipe, or with the
// error given to CloseRead.
func (s *Stream) Write(p []byte) (int, error) {
	if err := s.b.push(bytes.Clone(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// ReadFrom implements io.ReaderFrom by writing everything read from r
// into the buffer until EOF or an error occurs. It does not close the stream.
func (s *Stream) ReadFrom(r io.Reader) (int64, error) {
	return copyBuffered(r.Read, s.Write, s.b.cfg.copyBufferSize())
}

// Close signals the end of the input and starts the transform.
// It closes the write side only.
func (s *Stream) Close() error {
	s.b.closeWrite(nil)
	return nil
}

// CloseWithError ends the input with an upstream failure. When it arrives
// before the transform ran, the transform receives err and may recover from it.
func (s *Stream) CloseWithError(err error) error {
	s.b.closeWrite(err)
	return nil
}

// Read blocks until the transform has completed and then reads its result.
// It returns io.EOF once the result is exhausted, and the terminal error if
// the transform failed.
func (s *Stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	var n int
	err := s.b.consume(func(q *queue[[]byte]) {
		for n < len(p) && !q.empty() {
			front := q.front()
			c := copy(p[n:], *front)
			n += c
			*front = (*front)[c:]
			if len(*front) == 0 {
				q.pop()
			}
		}
	})
	return n, err
}

// WriteTo implements io.WriterTo by reading the result and writing it
// to w until EOF or an error occurs.
func (s *Stream) WriteTo(w io.Writer) (int64, error) {
	return copyBuffered(s.Read, w.Write, s.b.cfg.copyBufferSize())
}

// CloseRead closes the read side. Later reads fail with io.ErrClosedPipe and
// later writes with err, or io.ErrClosedPipe when err is nil. A non-nil err
// arriving before the transform ran is handed to it.
func (s *Stream) CloseRead(err error) error {
	s.b.closeRead(err)
	return nil
}

// Ready returns a channel closed once the transform has completed
// or the stream has failed.
func (s *Stream) Ready() <-chan struct{} {
	return s.b.ready
}

// Err returns the terminal error, if any.
func (s *Stream) Err() error {
	return s.b.terminalErr()
}

// ID returns the identifier used in the stream's log entries.
func (s *Stream) ID() string {
	return s.b.id
}

// Mode returns Binary.
func (s *Stream) Mode() Mode {
	return s.b.codec.mode
}

func copyBuffered(read func([]byte) (int, error), write func([]byte) (int, error), size int) (int64, error) {
	buf := make([]byte, size)
	var total int64
	for {
		n, rErr := read(buf)
		if n > 0 {
			wn, wErr := write(buf[:n])
			if wn < 0 || wn > n {
				wn = 0
				if wErr == nil {
					wErr = io.ErrShortWrite
				}
			}
			total += int64(wn)
			if wErr != nil {
				return total, wErr
			}
			if wn != n {
				return total, io.ErrShortWrite
			}
		}
		if rErr != nil {
			if rErr != io.EOF {
				return total, rErr
			}
			return total, nil
		}
	}
}

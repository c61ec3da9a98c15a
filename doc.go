// Package bufferstream provides a buffering duplex stream. Unlike an io.Pipe,
// it does not hand data through as it arrives: it collects the whole input,
// passes it once to a transform, and only then lets the reader consume the
// transform's result.
//
// A Stream works on bytes and coalesces writes into one slice. An ItemStream
// works on discrete items and hands the transform the items in send order.
// Transforms come in two shapes: a simple function returning the replacement,
// and a continuation form that also receives an error captured before the
// handoff and may recover from it.
package bufferstream

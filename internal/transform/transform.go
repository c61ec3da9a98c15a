// Package transform holds the named whole-payload transforms the bufferpipe
// command can attach to a stream.
package transform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/jacoelho/bufferstream"
	"github.com/jacoelho/bufferstream/internal/source"
)

// ErrUnknown is returned when no transform has the requested name.
var ErrUnknown = errors.New("unknown transform")

var byteTransforms = map[string]bufferstream.Func[[]byte]{
	"identity": func(_ context.Context, p []byte) ([]byte, error) { return p, nil },
	"upper":    func(_ context.Context, p []byte) ([]byte, error) { return bytes.ToUpper(p), nil },
	"lower":    func(_ context.Context, p []byte) ([]byte, error) { return bytes.ToLower(p), nil },
	"trim":     func(_ context.Context, p []byte) ([]byte, error) { return bytes.TrimSpace(p), nil },
	"markdown": Markdown,
}

var fileTransforms = map[string]bufferstream.Func[[]source.File]{
	"identity": func(_ context.Context, files []source.File) ([]source.File, error) { return files, nil },
	"sort": func(_ context.Context, files []source.File) ([]source.File, error) {
		slices.SortStableFunc(files, func(a, b source.File) int {
			return strings.Compare(a.Path, b.Path)
		})
		return files, nil
	},
	"reverse": func(_ context.Context, files []source.File) ([]source.File, error) {
		slices.Reverse(files)
		return files, nil
	},
}

// Bytes returns the binary transform registered under name.
func Bytes(name string) (bufferstream.Func[[]byte], error) {
	fn, ok := byteTransforms[name]
	if !ok {
		return nil, fmt.Errorf("%w %q for binary mode", ErrUnknown, name)
	}
	return fn, nil
}

// Files returns the item transform registered under name.
func Files(name string) (bufferstream.Func[[]source.File], error) {
	fn, ok := fileTransforms[name]
	if !ok {
		return nil, fmt.Errorf("%w %q for items mode", ErrUnknown, name)
	}
	return fn, nil
}

// Names lists the registered transforms for a mode, sorted.
func Names(mode bufferstream.Mode) []string {
	var names []string
	switch mode {
	case bufferstream.Items:
		for name := range fileTransforms {
			names = append(names, name)
		}
	default:
		for name := range byteTransforms {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown renders a whole markdown document to HTML.
func Markdown(_ context.Context, doc []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := md.Convert(doc, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

package transform_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacoelho/bufferstream"
	"github.com/jacoelho/bufferstream/internal/source"
	"github.com/jacoelho/bufferstream/internal/transform"
)

func TestBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"identity", "Abc", "Abc"},
		{"upper", "Abc", "ABC"},
		{"lower", "Abc", "abc"},
		{"trim", "  Abc\n", "Abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fn, err := transform.Bytes(tt.name)
			require.NoError(t, err)
			got, err := fn(context.Background(), []byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestUnknown(t *testing.T) {
	t.Parallel()
	_, err := transform.Bytes("sort")
	assert.ErrorIs(t, err, transform.ErrUnknown)
	_, err = transform.Files("upper")
	assert.ErrorIs(t, err, transform.ErrUnknown)
}

func TestMarkdown(t *testing.T) {
	t.Parallel()
	got, err := transform.Markdown(context.Background(), []byte("# Title\n\nsome **bold** text\n"))
	require.NoError(t, err)
	assert.Contains(t, string(got), "<h1>Title</h1>")
	assert.Contains(t, string(got), "<strong>bold</strong>")
}

func TestMarkdownThroughStream(t *testing.T) {
	t.Parallel()
	fn, err := transform.Bytes("markdown")
	require.NoError(t, err)
	s, err := bufferstream.New(fn)
	require.NoError(t, err)

	// a heading split across writes only renders once the whole document is buffered
	_, err = s.Write([]byte("# Hea"))
	require.NoError(t, err)
	_, err = s.Write([]byte("ding\n"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	out, err := io.ReadAll(s)
	require.NoError(t, err)
	assert.Equal(t, "<h1>Heading</h1>\n", string(out))
}

func TestFiles(t *testing.T) {
	t.Parallel()
	files := func() []source.File {
		return []source.File{{Path: "b"}, {Path: "c"}, {Path: "a"}}
	}
	paths := func(fs []source.File) []string {
		var out []string
		for _, f := range fs {
			out = append(out, f.Path)
		}
		return out
	}

	sortFn, err := transform.Files("sort")
	require.NoError(t, err)
	got, err := sortFn(context.Background(), files())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, paths(got))

	reverseFn, err := transform.Files("reverse")
	require.NoError(t, err)
	got, err = reverseFn(context.Background(), files())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, paths(got))
}

func TestNames(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"identity", "lower", "markdown", "trim", "upper"}, transform.Names(bufferstream.Binary))
	assert.Equal(t, []string{"identity", "reverse", "sort"}, transform.Names(bufferstream.Items))
}

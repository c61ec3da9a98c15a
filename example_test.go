package bufferstream_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/jacoelho/bufferstream"
)

func ExampleNew() {
	s, err := bufferstream.New(func(payload []byte) ([]byte, error) {
		return bytes.ToUpper(payload), nil
	})
	if err != nil {
		panic(err)
	}

	go func() {
		defer s.Close()
		for i := range 3 {
			fmt.Fprintf(s, "message %d\n", i)
		}
	}()

	_, _ = io.Copy(os.Stdout, s)
	// Output:
	// MESSAGE 0
	// MESSAGE 1
	// MESSAGE 2
}

func ExampleNewItems() {
	s, err := bufferstream.NewItems[int](func(_ context.Context, items []int) ([]int, error) {
		slices.Reverse(items)
		return items, nil
	})
	if err != nil {
		panic(err)
	}

	_ = s.SendAll(slices.Values([]int{1, 2, 3}))
	_ = s.Close()

	for v, err := range s.All() {
		if err != nil {
			panic(err)
		}
		fmt.Println(v)
	}
	// Output:
	// 3
	// 2
	// 1
}

func ExampleCallbackFunc() {
	recoverFn := bufferstream.CallbackFunc[[]byte](func(err error, payload []byte, done bufferstream.Done[[]byte]) {
		if err != nil {
			done(nil, []byte("recovered: "+err.Error()))
			return
		}
		done(nil, payload)
	})
	s, err := bufferstream.New(recoverFn)
	if err != nil {
		panic(err)
	}

	_, _ = s.Write([]byte("partial"))
	_ = s.CloseWithError(errors.New("boom"))

	out, _ := io.ReadAll(s)
	fmt.Println(string(out))
	// Output:
	// recovered: boom
}

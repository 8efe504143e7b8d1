package cli

import (
	"bytes"
	"os"
	"testing"
)

// captureStdout swaps os.Stdout for a pipe and hands back a restore func
// that returns everything written in between. A background reader drains
// the pipe so large outputs cannot fill its buffer and block the writer.
func captureStdout(t *testing.T) func() string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w

	var captured bytes.Buffer
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		_, _ = captured.ReadFrom(r)
	}()

	return func() string {
		_ = w.Close()
		<-drained
		os.Stdout = orig
		return captured.String()
	}
}

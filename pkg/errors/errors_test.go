package errors_test

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"

	xe "github.com/opst/voipinv/pkg/errors"
)

type sentinel struct{}

func (sentinel) Error() string { return "sentinel error" }

func createError(message string) error {
	return xe.New(message)
}

func TestNew(t *testing.T) {
	err := createError("test error")

	_, thisFile, _, _ := runtime.Caller(0)
	located := new(xe.Located)
	if !errors.As(err, &located) {
		t.Fatalf("not located: %#v", err)
	}
	if !strings.HasSuffix(located.Func, ".createError") {
		t.Errorf("func: %s", located.Func)
	}
	if located.File != thisFile {
		t.Errorf("file: got %s, want %s", located.File, thisFile)
	}
	if !strings.HasSuffix(err.Error(), ": test error") {
		t.Errorf("message: %s", err)
	}
}

func TestWrap(t *testing.T) {
	t.Run("it keeps wrapped errors", func(t *testing.T) {
		root := sentinel{}
		err := xe.Wrap(fmt.Errorf("outer: %w", root))
		if !errors.Is(err, root) {
			t.Error("it does not support unwrapping")
		}
	})

	t.Run("nil is kept nil", func(t *testing.T) {
		if err := xe.Wrap(nil); err != nil {
			t.Errorf("got %v", err)
		}
		if err := xe.WrapWithNote("note", nil); err != nil {
			t.Errorf("got %v", err)
		}
	})

	t.Run("note is in message", func(t *testing.T) {
		err := xe.WrapWithNote("loading config", sentinel{})
		if !strings.Contains(err.Error(), "[loading config]: sentinel error") {
			t.Errorf("got %s", err)
		}
	})
}

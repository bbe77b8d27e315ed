package try_test

import (
	"errors"
	"testing"

	"github.com/opst/voipinv/pkg/utils/try"
)

type fataler struct {
	fatal  [][]any
	helper int
}

func (f *fataler) Fatal(args ...any) {
	f.fatal = append(f.fatal, args)
}

func (f *fataler) Helper() {
	f.helper += 1
}

func TestTo(t *testing.T) {
	t.Run("when it does not have error, OrFatal returns the value without Fatal", func(t *testing.T) {
		f := &fataler{}
		if got := try.To(42, nil).OrFatal(f); got != 42 {
			t.Errorf("got %d", got)
		}
		if len(f.fatal) != 0 || f.helper != 0 {
			t.Errorf("fataler is used: %+v", f)
		}
		if got := try.To(42, nil).OrDefault(7); got != 42 {
			t.Errorf("OrDefault: got %d", got)
		}
	})

	t.Run("when it has error, OrFatal calls Helper and Fatal", func(t *testing.T) {
		expectedErr := errors.New("fake error")
		f := &fataler{}
		if got := try.To(42, expectedErr).OrFatal(f); got != 0 {
			t.Errorf("got %d", got)
		}
		if len(f.fatal) != 1 || f.fatal[0][0] != expectedErr {
			t.Errorf("Fatal is not called with the error: %+v", f.fatal)
		}
		if f.helper != 1 {
			t.Errorf("Helper is called %d times", f.helper)
		}
		if got := try.To(42, expectedErr).OrDefault(7); got != 7 {
			t.Errorf("OrDefault: got %d", got)
		}
	})

	t.Run("Map converts only ok value", func(t *testing.T) {
		double := func(i int) int { return i * 2 }
		if v, err := try.Map(try.To(21, nil), double).Get(); v != 42 || err != nil {
			t.Errorf("got (%d, %v)", v, err)
		}
		expectedErr := errors.New("fake error")
		if _, err := try.Map(try.To(21, expectedErr), double).Get(); !errors.Is(err, expectedErr) {
			t.Errorf("got error %v", err)
		}
	})
}

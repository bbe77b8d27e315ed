package errors_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	apierr "github.com/opst/voipinv/pkg/api/types/errors"
	kdb "github.com/opst/voipinv/pkg/db"
	"github.com/opst/voipinv/pkg/utils/try"
)

func TestFromDB(t *testing.T) {
	type Then struct {
		code   int
		reason string
		advice string
	}
	theory := func(when error, then Then) func(*testing.T) {
		return func(t *testing.T) {
			got := apierr.FromDB(when)
			if got.Code != then.code {
				t.Errorf("code: got %d, want %d", got.Code, then.code)
			}
			msg, ok := got.Message.(apierr.ErrorMessage)
			if !ok {
				t.Fatalf("message is not ErrorMessage: %T", got.Message)
			}
			if msg.Reason != then.reason {
				t.Errorf("reason: got %q, want %q", msg.Reason, then.reason)
			}
			if then.advice != "" && msg.Advice != then.advice {
				t.Errorf("advice: got %q, want %q", msg.Advice, then.advice)
			}
			if !errors.Is(got.Internal, when) {
				t.Errorf("internal should wrap the cause: %v", got.Internal)
			}
		}
	}

	t.Run("missing", theory(
		kdb.NewErrMissing("number", 3),
		Then{code: http.StatusNotFound, reason: "not found"},
	))
	t.Run("invalid with field", theory(
		fmt.Errorf("wrapped: %w", kdb.NewErrInvalid("forward_to", "number cannot forward to itself")),
		Then{
			code: http.StatusBadRequest, reason: "invalid value",
			advice: "forward_to: number cannot forward to itself",
		},
	))
	t.Run("invalid without field", theory(
		fmt.Errorf("%w: broken", kdb.ErrInvalid),
		Then{code: http.StatusBadRequest, reason: "bad request"},
	))
	t.Run("conflict", theory(
		fmt.Errorf("%w: number", kdb.ErrConflict),
		Then{code: http.StatusConflict, reason: "conflicting with an existing record"},
	))
	t.Run("unknown", theory(
		errors.New("boom"),
		Then{code: http.StatusInternalServerError, reason: "unexpected error"},
	))
}

func TestErrorMessage_JSON(t *testing.T) {
	t.Run("envelope has reason, advice and see", func(t *testing.T) {
		resp := apierr.ErrorResponse{Message: apierr.ErrorMessage{
			Reason: "bad request", Advice: "fix it", See: "https://example.com", Cause: errors.New("hidden"),
		}}
		got := string(try.To(json.Marshal(resp)).OrFatal(t))
		want := `{"message":{"reason":"bad request","advice":"fix it","see":"https://example.com"}}`
		if got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	})

	t.Run("reason is required", func(t *testing.T) {
		msg := apierr.ErrorMessage{}
		if err := json.Unmarshal([]byte(`{"advice": "x"}`), &msg); err == nil {
			t.Error("expected error")
		}
	})
}

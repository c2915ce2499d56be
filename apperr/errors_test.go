package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Vinay0726/Eventra/apperr"
)

func TestKindSurvivesWrapping(t *testing.T) {
	base := apperr.CapacityExceeded("sold out")
	wrapped := fmt.Errorf("confirm checkout: %w", base)

	if !apperr.IsKind(wrapped, apperr.KindCapacityExceeded) {
		t.Fatalf("kind lost through wrapping")
	}
	if apperr.KindOf(wrapped) != apperr.KindCapacityExceeded {
		t.Fatalf("KindOf = %q", apperr.KindOf(wrapped))
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperr.Wrap(apperr.KindUpstreamPayment, "gateway status check failed", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("cause not reachable through Unwrap")
	}
	if apperr.KindOf(err) != apperr.KindUpstreamPayment {
		t.Fatalf("KindOf = %q", apperr.KindOf(err))
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.NotFound("event"), http.StatusNotFound},
		{apperr.Validation("bad seats"), http.StatusBadRequest},
		{apperr.CapacityExceeded("sold out"), http.StatusBadRequest},
		{apperr.New(apperr.KindUpstreamPayment, "declined"), http.StatusBadRequest},
		{apperr.New(apperr.KindConflict, "email taken"), http.StatusConflict},
		{apperr.New(apperr.KindDuplicate, "already recorded"), http.StatusConflict},
		{apperr.New(apperr.KindUnauthorized, "bad credentials"), http.StatusUnauthorized},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := apperr.HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestIsKindOnUntypedError(t *testing.T) {
	if apperr.IsKind(errors.New("plain"), apperr.KindNotFound) {
		t.Fatalf("plain error matched a kind")
	}
	if apperr.KindOf(nil) != "" {
		t.Fatalf("KindOf(nil) = %q", apperr.KindOf(nil))
	}
}

package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesKindAndCode(t *testing.T) {
	err := Conflict(CodeAlreadyCheckedOut, "record %d already checked out", 7)

	if !errors.Is(err, ErrConflict) {
		t.Error("expected kind match against ErrConflict")
	}
	if !errors.Is(err, ErrAlreadyCheckedOut) {
		t.Error("expected code match against ErrAlreadyCheckedOut")
	}
	if errors.Is(err, ErrAlreadyCheckedIn) {
		t.Error("different code must not match")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("different kind must not match")
	}
}

func TestWrappedErrorsKeepKind(t *testing.T) {
	err := fmt.Errorf("create sale: %w", WithCode(KindNotFound, CodeProductNotFound, "product 3 not found"))

	if KindOf(err) != KindNotFound {
		t.Errorf("KindOf = %v", KindOf(err))
	}
	if CodeOf(err) != CodeProductNotFound {
		t.Errorf("CodeOf = %q", CodeOf(err))
	}
	if !errors.Is(err, ErrProductNotFound) {
		t.Error("expected match through fmt wrapping")
	}
}

func TestMessageHidesInternalDetail(t *testing.T) {
	err := Internal(errors.New("pq: connection refused"), "load products")
	if got := Message(err); got != "internal error" {
		t.Errorf("Message = %q", got)
	}
	if got := Message(errors.New("boom")); got != "internal error" {
		t.Errorf("Message(plain) = %q", got)
	}
	if got := Message(NotFound("user %d not found", 4)); got != "user 4 not found" {
		t.Errorf("Message(not found) = %q", got)
	}
}

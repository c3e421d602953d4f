package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", NotFound("post not found"), KindNotFound},
		{"conflict", Conflict("slug taken"), KindConflict},
		{"bad request", BadRequest("bad ref"), KindBadRequest},
		{"validation", Validation("invalid", []FieldError{{Field: "title"}}), KindValidation},
		{"too many", TooManyRequests("slow down"), KindTooManyRequests},
		{"database", Database("insert post", errors.New("boom")), KindDatabase},
		{"wrapped", fmt.Errorf("create: %w", Conflict("slug taken")), KindConflict},
		{"plain error", errors.New("boom"), KindDatabase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("missing"))
	if !Is(err, KindNotFound) {
		t.Error("Is(err, KindNotFound) = false, want true")
	}
	if Is(err, KindConflict) {
		t.Error("Is(err, KindConflict) = true, want false")
	}
	if Is(errors.New("plain"), KindDatabase) {
		t.Error("plain errors are not *Error")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := map[Kind]int{
		KindNotFound:        http.StatusNotFound,
		KindConflict:        http.StatusConflict,
		KindBadRequest:      http.StatusBadRequest,
		KindValidation:      http.StatusUnprocessableEntity,
		KindTooManyRequests: http.StatusTooManyRequests,
		KindDatabase:        http.StatusInternalServerError,
		Kind("other"):       http.StatusInternalServerError,
	}
	for k, want := range tests {
		if got := HTTPStatus(k); got != want {
			t.Errorf("HTTPStatus(%q) = %d, want %d", k, got, want)
		}
	}
}

func TestError_Message(t *testing.T) {
	cause := errors.New("connection reset")
	err := Database("insert post", cause)
	if !errors.Is(err, cause) {
		t.Error("Database error should unwrap to its cause")
	}
	if err.Error() != "insert post: connection reset" {
		t.Errorf("Error() = %q", err.Error())
	}

	v := Validation("cannot publish", []FieldError{{Field: "title"}, {Field: "content"}})
	if v.Error() != "cannot publish (title, content)" {
		t.Errorf("Error() = %q", v.Error())
	}
}

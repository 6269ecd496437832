package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sakif/taskmate/internal/apperror"
)

// maxBodyBytes caps request bodies; the largest legitimate one is a provider
// registration form.
const maxBodyBytes = 64 << 10

// decodeJSON reads the request body into dst.
//
// An empty body leaves dst untouched so the service reports the missing
// fields itself. Anything that is not one JSON object is a validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(body).Decode(dst)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperror.ValidationFailed("body", "Request body too large")
		}
		var numErr *numberError
		if errors.As(err, &numErr) {
			return apperror.ValidationFailed("", numErr.Error())
		}
		return apperror.ValidationFailed("body", "Invalid request body")
	}
}

type numberError struct {
	raw string
}

func (e *numberError) Error() string {
	return fmt.Sprintf("Expected a number, got %s", e.raw)
}

// number is an optional integer field that accepts either a JSON number or
// a numeric string, since HTML select and input values arrive as strings.
// "" and null leave it unset.
type number struct {
	value int64
	set   bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = number{}
		return nil
	}

	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = number{}
			return nil
		}
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return &numberError{raw: string(b)}
	}
	*n = number{value: v, set: true}
	return nil
}

// Int64 returns the value, or 0 when unset.
func (n number) Int64() int64 {
	return n.value
}

// IntPtr returns nil when unset.
func (n number) IntPtr() *int {
	if !n.set {
		return nil
	}
	v := int(n.value)
	return &v
}

// optString maps a blank or missing form value to nil.
func optString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

package forms

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNoExternalIDs is returned before any request when every id field is blank.
	ErrNoExternalIDs = errors.New("no external ids given")
	// ErrInvalid matches any FieldErrors through errors.Is.
	ErrInvalid = errors.New("invalid form")
)

// FieldErrors maps a field key to its inline message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return strings.Join(parts, "; ")
}

func (f FieldErrors) Is(target error) bool { return target == ErrInvalid }

// orNil keeps "no errors" as a nil error instead of an empty map.
func (f FieldErrors) orNil() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

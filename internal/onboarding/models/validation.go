package models

import "sort"

// ErrorKind tags a field validation failure.
type ErrorKind string

const (
	KindRequired      ErrorKind = "required"
	KindTooShort      ErrorKind = "too_short"
	KindTooLong       ErrorKind = "too_long"
	KindInvalidFormat ErrorKind = "invalid_format"
)

// ValidationError is a single field failure. Limit is the bound that was
// violated for TooShort and TooLong and zero otherwise.
type ValidationError struct {
	Field   Field     `json:"field"`
	Kind    ErrorKind `json:"kind"`
	Limit   int       `json:"limit,omitempty"`
	Message string    `json:"message"`
}

func (e ValidationError) Error() string { return e.Message }

// ValidationErrors holds the failing fields of a draft; an absent field is
// valid.
type ValidationErrors map[Field]ValidationError

// Apply records err for f, or clears f when err is nil.
func (v ValidationErrors) Apply(f Field, err *ValidationError) {
	if err == nil {
		delete(v, f)
		return
	}
	v[f] = *err
}

// Has reports whether f currently fails.
func (v ValidationErrors) Has(f Field) bool {
	_, ok := v[f]
	return ok
}

// Clone copies the set.
func (v ValidationErrors) Clone() ValidationErrors {
	out := make(ValidationErrors, len(v))
	for k, e := range v {
		out[k] = e
	}
	return out
}

// Messages maps field names to messages, for transport.
func (v ValidationErrors) Messages() map[string]string {
	out := make(map[string]string, len(v))
	for f, e := range v {
		out[string(f)] = e.Message
	}
	return out
}

// Sorted returns the errors ordered by field name.
func (v ValidationErrors) Sorted() []ValidationError {
	out := make([]ValidationError, 0, len(v))
	for _, e := range v {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

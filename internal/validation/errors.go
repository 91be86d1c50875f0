package validation

import "strings"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is a list of field problems. It is both the pre-flight result and the
// structured body the API returns with 422.
type Errors []FieldError

func (e *Errors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		if fe.Field == "" {
			parts = append(parts, fe.Message)
			continue
		}
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// Err returns nil when there is nothing to report.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Prefix qualifies every field, e.g. "row 3.email".
func (e Errors) Prefix(p string) Errors {
	out := make(Errors, len(e))
	for i, fe := range e {
		field := p
		if fe.Field != "" {
			field += "." + fe.Field
		}
		out[i] = FieldError{Field: field, Message: fe.Message}
	}
	return out
}

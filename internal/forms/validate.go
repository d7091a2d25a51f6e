package forms

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
)

// ValidationError carries the first failing field's message, surfaced to the
// client verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidatePartial checks only the fields present in values against their
// declared types. Missing fields are fine; a section save is a partial write.
func ValidatePartial(values map[string]any) error {
	for _, section := range sections {
		for _, field := range section.Fields {
			value, ok := values[field.Key]
			if !ok || value == nil {
				continue
			}
			if err := checkFieldType(field, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateStrict checks the complete payload: every declared required field
// must be present and non-empty, and all present fields must type-check.
func ValidateStrict(values map[string]any) error {
	for _, section := range sections {
		for _, field := range section.Fields {
			value, present := values[field.Key]
			if !present || value == nil {
				if field.Required {
					return &ValidationError{
						Field:   field.Key,
						Message: fmt.Sprintf("%s is required", field.Label),
					}
				}
				continue
			}
			if err := checkFieldType(field, value); err != nil {
				return err
			}
			if field.Required && isEmpty(field, value) {
				return &ValidationError{
					Field:   field.Key,
					Message: fmt.Sprintf("%s is required", field.Label),
				}
			}
		}
	}
	return nil
}

func checkFieldType(field Field, value any) error {
	switch field.Type {
	case FieldText, FieldTextarea:
		if _, ok := value.(string); !ok {
			return typeError(field, "text")
		}
	case FieldEmail:
		s, ok := value.(string)
		if !ok {
			return typeError(field, "text")
		}
		if s != "" {
			if _, err := mail.ParseAddress(s); err != nil {
				return &ValidationError{Field: field.Key, Message: "Enter a valid email address"}
			}
		}
	case FieldURL:
		s, ok := value.(string)
		if !ok {
			return typeError(field, "text")
		}
		if s != "" {
			parsed, err := url.Parse(s)
			if err != nil || parsed.Scheme == "" || parsed.Host == "" {
				return &ValidationError{
					Field:   field.Key,
					Message: "Enter a valid URL, e.g. https://example.com",
				}
			}
		}
	case FieldNumber:
		switch value.(type) {
		case float64, int, int64:
		default:
			return typeError(field, "number")
		}
	case FieldSelect:
		s, ok := value.(string)
		if !ok {
			return typeError(field, "text")
		}
		if s != "" && len(field.Options) > 0 && !contains(field.Options, s) {
			return &ValidationError{
				Field:   field.Key,
				Message: fmt.Sprintf("Select a valid option for %s", field.Label),
			}
		}
	case FieldMultiselect:
		items, ok := value.([]any)
		if !ok {
			if _, isStrings := value.([]string); !isStrings {
				return typeError(field, "list")
			}
			return nil
		}
		for _, item := range items {
			if _, ok := item.(string); !ok {
				return typeError(field, "list")
			}
		}
	case FieldCheckbox:
		if _, ok := value.(bool); !ok {
			return typeError(field, "boolean")
		}
	}
	return nil
}

func isEmpty(field Field, value any) bool {
	switch field.Type {
	case FieldMultiselect:
		return len(StringSlice(value)) == 0
	case FieldCheckbox:
		b, _ := value.(bool)
		return !b
	default:
		s, ok := value.(string)
		return ok && strings.TrimSpace(s) == ""
	}
}

func typeError(field Field, want string) error {
	return &ValidationError{
		Field:   field.Key,
		Message: fmt.Sprintf("%s must be %s", field.Label, want),
	}
}

func contains(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}

// StringSlice coerces a decoded JSON value into a string slice, dropping
// non-string entries.
func StringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

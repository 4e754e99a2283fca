// Package validation collects field-tagged failures for request DTOs. Each
// DTO owns an explicit Validate method built from these helpers; rule checks
// are delegated to go-playground/validator tags.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError is one failed constraint. Message is a stable machine key such
// as "title-required".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the ordered list of failures for one request. At most one entry
// is kept per field.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// Has reports whether field already failed.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Messages returns the message keys in order.
func (e Errors) Messages() []string {
	out := make([]string, 0, len(e))
	for _, fe := range e {
		out = append(out, fe.Message)
	}
	return out
}

// Merge appends failures from other for fields not yet present.
func (e Errors) Merge(other Errors) Errors {
	for _, fe := range other {
		if !e.Has(fe.Field) {
			e = append(e, fe)
		}
	}
	return e
}

// Err converts the list into a VALIDATION_ERROR carrying it as details, or
// nil when empty. The first message doubles as the error message.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, e[0].Message).WithDetails(e)
}

// FromError extracts the field list from a validation error, if any.
func FromError(err error) Errors {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		return nil
	}
	errs, _ := typed.Details().(Errors)
	return errs
}

// Builder accumulates failures for a single DTO.
type Builder struct {
	errs Errors
}

// Fail records msg for field unless the field already failed.
func (b *Builder) Fail(field, msg string) *Builder {
	if !b.errs.Has(field) {
		b.errs = append(b.errs, FieldError{Field: field, Message: msg})
	}
	return b
}

// Check records msg when ok is false.
func (b *Builder) Check(ok bool, field, msg string) *Builder {
	if !ok {
		b.Fail(field, msg)
	}
	return b
}

// Tag runs a validator tag (e.g. "email", "gte=1") against value.
func (b *Builder) Tag(field string, value any, tag, msg string) *Builder {
	if b.errs.Has(field) {
		return b
	}
	return b.Check(Matches(value, tag), field, msg)
}

// RequiredString fails with missing when v is nil and, if notEmpty is set,
// with notEmpty when v is blank.
func (b *Builder) RequiredString(field string, v *string, missing, notEmpty string) *Builder {
	if v == nil {
		return b.Fail(field, missing)
	}
	if notEmpty != "" && strings.TrimSpace(*v) == "" {
		return b.Fail(field, notEmpty)
	}
	return b
}

// Errors returns the collected failures (nil when none).
func (b *Builder) Errors() Errors {
	return b.errs
}

// Matches reports whether value satisfies the validator tag.
func Matches(value any, tag string) bool {
	return validate.Var(value, tag) == nil
}

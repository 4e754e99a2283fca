package validators

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/validation"
)

// Validatable is implemented by every request DTO.
type Validatable interface {
	Validate() validation.Errors
}

// TypeMessager maps JSON field paths (e.g. "price", "items.quantity") to the
// message reported when the payload carries the wrong JSON type there.
type TypeMessager interface {
	TypeMessages() map[string]string
}

const maxBodyBytes = 1 << 20

// DecodeJSONBody decodes the request body into dest and runs its Validate
// method. Type mismatches are reported with the DTO's own message keys and
// merged with the remaining field failures.
func DecodeJSONBody(r *http.Request, dest Validatable) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()

	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	var errs validation.Errors
	if err := decoder.Decode(dest); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typeErr):
			errs = append(errs, validation.FieldError{Field: typeErr.Field, Message: typeMessage(dest, typeErr.Field)})
		case errors.Is(err, io.EOF):
			return pkgerrors.New(pkgerrors.CodeValidation, "request-body-required")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			errs = append(errs, validation.FieldError{Field: field, Message: "unknown-field"})
		default:
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid-json-body")
		}
	}

	return errs.Merge(dest.Validate()).Err()
}

func typeMessage(dest any, field string) string {
	if tm, ok := dest.(TypeMessager); ok {
		if msg, ok := tm.TypeMessages()[field]; ok {
			return msg
		}
	}
	return "invalid-type"
}

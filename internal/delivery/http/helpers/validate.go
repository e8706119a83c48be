package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"conferencescheduler/internal/domain"
)

// Validator is implemented by request DTOs with checks struct tags cannot express.
// Validate returns a slice of error messages; nil or empty means valid.
type Validator interface {
	Validate() []string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("timestamp", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(domain.TimeLayout, strings.TrimSpace(fl.Field().String()))
		return err == nil
	})
	_ = v.RegisterValidation("event_kind", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseEventKind(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("account_type", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseAccountType(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// DecodeAndValidate decodes the request body into dest (with DisallowUnknownFields),
// checks its validate tags and, if dest implements Validator, runs Validate().
// On failure it writes a 400 JSON error and returns false; callers should return immediately.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if errs := ValidateStruct(dest); len(errs) > 0 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(errs, "; "))
		return false
	}
	return true
}

// ValidateStruct runs the tag rules and the Validator hook on dest.
func ValidateStruct(dest any) []string {
	var msgs []string
	if err := validate.Struct(dest); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []string{err.Error()}
		}
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
	}
	if v, ok := dest.(Validator); ok {
		msgs = append(msgs, v.Validate()...)
	}
	return msgs
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "email":
		return "invalid email format"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "timestamp":
		return field + " must use the yyyy-mm-dd hh:mm format"
	case "event_kind":
		return field + ` must be "talk", "party" or "panel"`
	case "account_type":
		return field + ` must be "attendee", "speaker", "organizer" or "admin"`
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}

// ParseTimestamp reads a "yyyy-mm-dd hh:mm" wall-clock time in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(domain.TimeLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q: %w", s, domain.ErrInvalidInput)
	}
	return t, nil
}

// ParseInterval reads a start/end pair with ParseTimestamp.
func ParseInterval(start, end string, loc *time.Location) (domain.Interval, error) {
	s, err := ParseTimestamp(start, loc)
	if err != nil {
		return domain.Interval{}, err
	}
	e, err := ParseTimestamp(end, loc)
	if err != nil {
		return domain.Interval{}, err
	}
	return domain.NewInterval(s, e), nil
}

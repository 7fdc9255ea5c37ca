package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"trivia-api/internal/domain"
	"trivia-api/internal/dto"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// FieldError describes a single rejected field
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func (e FieldError) String() string {
	return e.Field + ":" + e.Rule
}

// Validator provides request validation functionality
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names instead of Go field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// an unset FlexibleInt validates like a nil pointer, so "required" rejects it
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if f, ok := field.Interface().(dto.FlexibleInt); ok && f.Set {
			return f.Value
		}
		return nil
	}, dto.FlexibleInt{})

	_ = v.RegisterValidation("notblank", validators.NotBlank)

	return &Validator{validate: v}
}

// Struct validates s against its `validate` tags and returns one FieldError per failing field.
func (v *Validator) Struct(s interface{}) ([]FieldError, error) {
	err := v.validate.Struct(s)
	if err == nil {
		return nil, nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, err
	}
	fieldErrs := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fieldErrs = append(fieldErrs, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return fieldErrs, nil
}

// ValidateCreateQuestion returns an Unprocessable DomainError naming every invalid field.
func (v *Validator) ValidateCreateQuestion(req *dto.CreateQuestionRequest) error {
	if req == nil {
		return domain.NewUnprocessableError("request body is required", nil)
	}
	fieldErrs, err := v.Struct(req)
	if err != nil {
		return domain.NewUnprocessableError("could not validate question", err)
	}
	if len(fieldErrs) == 0 {
		return nil
	}
	names := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		names[i] = fe.String()
	}
	return domain.NewUnprocessableError("invalid question fields", nil).
		WithContext("fields", strings.Join(names, ","))
}

// ParseID parses a path identifier. Only non-numeric input is a BadRequest;
// ids that match nothing are left to the caller's lookup.
func ParseID(raw, field string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, domain.NewBadRequestError(fmt.Sprintf("%s must be an integer", field)).
			WithContext(field, raw)
	}
	return id, nil
}

package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/medibook-api/internal/model"
)

// Register installs the domain tags and json field naming on v.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	tags := map[string]validator.Func{
		"appointment_status": func(fl validator.FieldLevel) bool {
			return model.AppointmentStatus(fl.Field().String()).Valid()
		},
		"doctor_status": func(fl validator.FieldLevel) bool {
			return model.DoctorStatus(fl.Field().String()).Valid()
		},
		"role": func(fl validator.FieldLevel) bool {
			return model.Role(fl.Field().String()).Valid()
		},
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s: %w", tag, err)
		}
	}
	return nil
}

// RegisterWithGin installs the domain tags on gin's binding engine.
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return Register(v)
}

var messages = map[string]string{
	"required":           "%s is required",
	"email":              "%s must be a valid email",
	"min":                "%s is too short",
	"max":                "%s is too long",
	"appointment_status": "invalid status",
	"doctor_status":      "invalid status",
	"role":               "invalid role",
}

// Message renders a binding error as a single client-facing sentence.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request body"
	}

	fe := verrs[0]
	format, ok := messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
	if !strings.Contains(format, "%s") {
		return format
	}
	return fmt.Sprintf(format, fe.Field())
}

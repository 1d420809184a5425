package forms

import (
	"errors"
	"reflect"
	"strings"

	"github.com/Nazarious-ucu/blogsphere-api/internal/models"
	"github.com/go-playground/validator/v10"
)

// NewsletterRequest is the body of POST /api/newsletter.
type NewsletterRequest struct {
	Email string `json:"email" form:"email" validate:"required"`
}

// ContactRequest is the body of POST /api/contact.
type ContactRequest struct {
	Name    string `json:"name" form:"name" validate:"required"`
	Email   string `json:"email" form:"email" validate:"required"`
	Subject string `json:"subject" form:"subject" validate:"required"`
	Message string `json:"message" form:"message" validate:"required"`
}

func (r ContactRequest) Fields() models.ContactFields {
	return models.ContactFields{
		Name:    r.Name,
		Email:   r.Email,
		Subject: r.Subject,
		Message: r.Message,
	}
}

// MissingFieldsError lists the request fields that were absent or empty.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks the required fields of a request DTO. It returns nil or a
// *MissingFieldsError; any other validator failure is returned unchanged.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	missing := &MissingFieldsError{Fields: make([]string, 0, len(verrs))}
	for _, fe := range verrs {
		missing.Fields = append(missing.Fields, fe.Field())
	}
	return missing
}

package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// invalidFields names the request fields that failed binding validation.
// Decode errors carry no field information and yield nil.
func invalidFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+":"+fe.Tag())
	}
	return fields
}

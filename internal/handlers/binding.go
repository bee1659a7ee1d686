package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// bindingErrorMessage turns a ShouldBindJSON error into a client-facing
// message, unpacking field-level validation failures when present.
func bindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request format: " + err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("field %q failed on the %q rule", fe.Field(), fe.Tag()))
	}
	return "Validation failed: " + strings.Join(msgs, "; ")
}

package request

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/edvin/mongoadmin/internal/validation"
)

var validate = validator.New()

func init() {
	validate.RegisterValidation("dbname", func(fl validator.FieldLevel) bool {
		_, err := validation.DatabaseName(fl.Field().String())
		return err == nil
	})
	validate.RegisterValidation("collname", func(fl validator.FieldLevel) bool {
		_, err := validation.CollectionName(fl.Field().String())
		return err == nil
	})
}

func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

// Struct validates v without decoding, for multipart forms.
func Struct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

package rules

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	configmgmt "github.com/plasne/config-mgmt"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Tag returns a validator that checks values against a validator field tag,
// such as "email", "url" or "gte=1,lte=10".
// An unknown tag rejects every value.
func Tag[T any](tag string) configmgmt.Validator[T] {
	return func(value T) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("invalid validation tag %q: %v", tag, r)
			}
		}()
		if err := validate.Var(value, tag); err != nil {
			return fmt.Errorf("value %v fails %q: %w", value, tag, err)
		}
		return nil
	}
}

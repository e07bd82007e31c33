package sim

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct checks the `validate` tags of v, including nested structs.
// Only the first violation is reported, naming the field by its path.
func ValidateStruct(v any) error {
	err := structValidator.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	if fe.Param() == "" {
		return fmt.Errorf("%s fails %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value())
	}
	return fmt.Errorf("%s fails %q=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value())
}

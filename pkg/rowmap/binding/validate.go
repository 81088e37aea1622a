package binding

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validate checks v against the column's rules.
func (c *Column) validate(v reflect.Value) (err error) {
	if c.Rules == "" {
		return nil
	}
	defer func() {
		// validator panics on rules it does not know.
		if r := recover(); r != nil {
			err = &MappingError{
				Type:  c.owner.typ(),
				Field: c.Field.Name,
				Err:   fmt.Errorf("%w: rules %q: %v", ErrInvalidDeclaration, c.Rules, r),
			}
		}
	}()

	x := v.Interface()
	verr := validate.Var(x, c.Rules)
	if verr == nil {
		return nil
	}
	var shown any = x
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		shown = v.Elem().Interface()
	}
	return &ValidationError{
		Field:   c.Field.Name,
		Value:   shown,
		Message: ruleMessage(verr),
		Err:     verr,
	}
}

func ruleMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("failed rule %s=%s", fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("failed rule %s", fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

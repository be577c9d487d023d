package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-service/internal/domain/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names in messages.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// Numeric rules on decimals compare their float value.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	// Amounts and rates are stored as NUMERIC(_, 2).
	if err := v.RegisterValidation("decimal_places", maxDecimalPlaces); err != nil {
		panic(fmt.Sprintf("register decimal_places validation: %v", err))
	}

	return v
}

// maxDecimalPlaces accepts a decimal with at most param fractional digits.
// Trailing zeros do not count.
func maxDecimalPlaces(fl validator.FieldLevel) bool {
	places, err := strconv.ParseInt(fl.Param(), 10, 32)
	if err != nil {
		panic(fmt.Sprintf("decimal_places: bad parameter %q", fl.Param()))
	}
	d, ok := decimalField(fl)
	if !ok {
		return false
	}
	return d.Equal(d.Truncate(int32(places)))
}

// decimalField recovers the decimal behind fl. The custom type func hands
// rules a float64, so the original is read from the parent struct.
func decimalField(fl validator.FieldLevel) (decimal.Decimal, bool) {
	if d, ok := fl.Field().Interface().(decimal.Decimal); ok {
		return d, true
	}
	parent := fl.Parent()
	if parent.Kind() == reflect.Ptr {
		parent = parent.Elem()
	}
	if parent.Kind() != reflect.Struct {
		return decimal.Decimal{}, false
	}
	d, ok := parent.FieldByName(fl.StructFieldName()).Interface().(decimal.Decimal)
	return d, ok
}

// Validate checks req against its validate tags. Failures wrap
// model.ErrInvalidInput.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", model.ErrInvalidInput, strings.Join(msgs, "; "))
}

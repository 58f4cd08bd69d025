package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"paynet/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		// report json names instead of Go field names
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
			if d, ok := v.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
		mustRegister("service_type", func(fl validator.FieldLevel) bool {
			return models.ValidServiceType(fl.Field().String())
		})
		mustRegister("commission_type", func(fl validator.FieldLevel) bool {
			return models.ValidCommissionType(fl.Field().String())
		})
	})
	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Struct validates s against its `validate` tags. Failures come back as a
// validation error keyed by json field name.
func Struct(s interface{}) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate request: %w", err)
	}
	v := New()
	for _, fe := range verrs {
		v.AddError(fieldPath(fe), message(fe))
	}
	return v.Err("invalid request")
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "service_type":
		return "must be one of: " + strings.Join(models.ServiceTypes, ", ")
	case "commission_type":
		return "must be one of: percentage, fixed, slab"
	case "required_without":
		return "is required when " + fe.Param() + " is missing"
	}
	return "failed " + fe.Tag() + " validation"
}

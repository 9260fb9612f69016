package handlers

import (
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validatorsOnce sync.Once

// registerValidators teaches gin's validator to compare decimal.Decimal fields
// with numeric tags such as gte=0, and rejects unknown JSON fields.
func registerValidators() {
	validatorsOnce.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		}
	})
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return nil
}

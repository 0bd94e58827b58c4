package handlers

import (
	"strings"
	"sync"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// RegisterValidators installs the custom binding tags on gin's validator. Safe to call repeatedly.
func RegisterValidators() {
	registerValidatorsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("customs_code", validateCustomsCode)
		}
	})
}

// validateCustomsCode accepts an empty value (clearing the code) or exactly
// domain.CustomsCodeLength characters.
func validateCustomsCode(fl validator.FieldLevel) bool {
	code := strings.TrimSpace(fl.Field().String())
	return code == "" || len(code) == domain.CustomsCodeLength
}

package service

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"bizbooks/internal/apperr"
)

var validate = validator.New()

// rule is one field check expressed as a validator tag.
type rule struct {
	field   string
	value   string
	tag     string
	message string
}

// check returns a Validation error for the first rule that fails.
func check(op string, rules ...rule) error {
	for _, r := range rules {
		if err := validate.Var(r.value, r.tag); err != nil {
			return apperr.Validation(op, r.field, r.message)
		}
	}
	return nil
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

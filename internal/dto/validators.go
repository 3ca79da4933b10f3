package dto

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("isin_checksum", validISIN)
	}
}

// validISIN checks the ISO 6166 structure: two letter country code, nine
// alphanumeric characters and a Luhn check digit over the digit-expanded
// string.
func validISIN(fl validator.FieldLevel) bool {
	isin := strings.ToUpper(fl.Field().String())
	if len(isin) != 12 {
		return false
	}
	if isin[0] < 'A' || isin[0] > 'Z' || isin[1] < 'A' || isin[1] > 'Z' {
		return false
	}

	var digits []int
	for _, r := range isin {
		switch {
		case r >= '0' && r <= '9':
			digits = append(digits, int(r-'0'))
		case r >= 'A' && r <= 'Z':
			v := int(r-'A') + 10
			digits = append(digits, v/10, v%10)
		default:
			return false
		}
	}

	sum := 0
	double := true
	for i := len(digits) - 2; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return (10-sum%10)%10 == digits[len(digits)-1]
}

package validate

import (
	"strings"
	"unicode"
)

// Violations accumulates field-level validation failures.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

func (v Violations) Add(field, message string) { v[field] = message }

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveCents(field string, cents int64, v Violations) {
	if cents <= 0 {
		v[field] = "must be greater than zero"
	}
}

func NonNegative(field string, n int, v Violations) {
	if n < 0 {
		v[field] = "must not be negative"
	}
}

func Percent(field string, val float64, v Violations) {
	if val <= 0 || val > 100 {
		v[field] = "must be between 0 and 100"
	}
}

// NationalID checks the lenient format rule: exactly ten numeric digits.
func NationalID(field, value string, v Violations) {
	if !allDigits(value) || len(value) != 10 {
		v[field] = "must be exactly 10 digits"
	}
}

// NationalIDStrict additionally verifies the weighted modulo-10 check digit.
func NationalIDStrict(field, value string, v Violations) {
	NationalID(field, value, v)
	if _, bad := v[field]; bad {
		return
	}
	sum := 0
	for i := 0; i < 9; i++ {
		d := int(value[i] - '0')
		if i%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	check := (10 - sum%10) % 10
	if check != int(value[9]-'0') {
		v[field] = "check digit mismatch"
	}
}

func Email(field, value string, v Violations) {
	if value == "" {
		return
	}
	at := strings.Index(value, "@")
	if at <= 0 || at == len(value)-1 || !strings.Contains(value[at+1:], ".") {
		v[field] = "invalid email address"
	}
}

func Phone(field, value string, v Violations) {
	if value == "" {
		return
	}
	if !allDigits(value) || len(value) != 10 {
		v[field] = "must be exactly 10 digits"
	}
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

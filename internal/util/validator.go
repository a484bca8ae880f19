package util

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail requires a single @ with non-empty local and domain parts,
// and a dot inside the domain.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is empty")
	}
	if !emailRe.MatchString(email) {
		return fmt.Errorf("invalid email format: %q", email)
	}
	return nil
}

// DigitsOnly strips every non-digit character.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, ch := range s {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// ValidateCNPJ checks length, repeated digits and both mod-11 check digits.
// Punctuation is ignored.
func ValidateCNPJ(cnpj string) error {
	digits := DigitsOnly(cnpj)
	if len(digits) != 14 {
		return fmt.Errorf("cnpj must have 14 digits, got %d", len(digits))
	}
	if strings.Count(digits, digits[:1]) == len(digits) {
		return fmt.Errorf("cnpj with repeated digits")
	}

	nums := make([]int, len(digits))
	for i, ch := range digits {
		nums[i] = int(ch - '0')
	}

	first := cnpjCheckDigit(nums[:12])
	if first != nums[12] {
		return fmt.Errorf("cnpj first check digit mismatch")
	}
	second := cnpjCheckDigit(nums[:13])
	if second != nums[13] {
		return fmt.Errorf("cnpj second check digit mismatch")
	}
	return nil
}

// cnpjCheckDigit weights the prefix 2..9 starting from its rightmost digit,
// wrapping back to 2 after 9.
func cnpjCheckDigit(prefix []int) int {
	sum, weight := 0, 2
	for i := len(prefix) - 1; i >= 0; i-- {
		sum += prefix[i] * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

// FormatCNPJ renders 14 digits as XX.XXX.XXX/XXXX-XX. Anything else is
// returned unchanged.
func FormatCNPJ(cnpj string) string {
	d := DigitsOnly(cnpj)
	if len(d) != 14 {
		return cnpj
	}
	return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
}

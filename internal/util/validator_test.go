package util

import (
	"testing"
)

// TestValidateCNPJ_Valid formatted and bare inputs with correct check digits
func TestValidateCNPJ_Valid(t *testing.T) {
	testCases := []string{
		"11222333000181",
		"11.222.333/0001-81",
		"45.723.174/0001-10",
		"12345678000195",
		" 98.765.432/0001-98 ",
	}

	for _, cnpj := range testCases {
		if err := ValidateCNPJ(cnpj); err != nil {
			t.Errorf("ValidateCNPJ(%q) error = %v, want nil", cnpj, err)
		}
	}
}

// TestValidateCNPJ_RepeatedDigits all-equal digits pass the checksum but are rejected
func TestValidateCNPJ_RepeatedDigits(t *testing.T) {
	for _, cnpj := range []string{"11111111111111", "00000000000000", "99.999.999/9999-99"} {
		if err := ValidateCNPJ(cnpj); err == nil {
			t.Errorf("ValidateCNPJ(%q) error = nil, want error", cnpj)
		}
	}
}

// TestValidateCNPJ_WrongLength
func TestValidateCNPJ_WrongLength(t *testing.T) {
	testCases := []string{
		"",
		"1122233300018",
		"112223330001811",
		"abc",
		"11.222.333/0001",
	}

	for _, cnpj := range testCases {
		if err := ValidateCNPJ(cnpj); err == nil {
			t.Errorf("ValidateCNPJ(%q) error = nil, want error", cnpj)
		}
	}
}

// TestValidateCNPJ_WrongCheckDigits
func TestValidateCNPJ_WrongCheckDigits(t *testing.T) {
	testCases := []string{
		"11222333000182", // second digit off
		"11222333000191", // first digit off
		"12345678000100",
	}

	for _, cnpj := range testCases {
		if err := ValidateCNPJ(cnpj); err == nil {
			t.Errorf("ValidateCNPJ(%q) error = nil, want error", cnpj)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"contato@sindicato.org.br", "a@b.co", "admin+x@sociodash.com"}
	for _, e := range valid {
		if err := ValidateEmail(e); err != nil {
			t.Errorf("ValidateEmail(%q) error = %v, want nil", e, err)
		}
	}

	invalid := []string{"", "plain", "@domain.com", "user@", "user@domain", "a@@b.com", "a b@c.com", "user@domain."}
	for _, e := range invalid {
		if err := ValidateEmail(e); err == nil {
			t.Errorf("ValidateEmail(%q) error = nil, want error", e)
		}
	}
}

func TestDigitsOnlyAndFormat(t *testing.T) {
	if got := DigitsOnly("11.222.333/0001-81"); got != "11222333000181" {
		t.Errorf("DigitsOnly = %q", got)
	}
	if got := FormatCNPJ("11222333000181"); got != "11.222.333/0001-81" {
		t.Errorf("FormatCNPJ = %q", got)
	}
	if got := FormatCNPJ("123"); got != "123" {
		t.Errorf("FormatCNPJ short = %q", got)
	}
}

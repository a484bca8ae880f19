package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"unicode/utf8"
)

// Strength grades a password that passed (or failed) the policy.
type Strength string

const (
	StrengthWeak   Strength = "weak"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

// PasswordCheck is the result of ValidatePasswordStrength.
type PasswordCheck struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Strength Strength `json:"strength"`
}

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	specialRe = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]`)
)

const (
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	digitChars   = "0123456789"
	specialChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	DefaultProvisionalLength = 12
)

// ValidatePasswordStrength evaluates password against the current policy.
func (p *Policy) ValidatePasswordStrength(password string) PasswordCheck {
	cfg := p.SecurityConfig()

	errs := []string{}
	length := utf8.RuneCountInString(password)
	if length < cfg.MinPasswordLength {
		errs = append(errs, fmt.Sprintf("Mínimo de %d caracteres", cfg.MinPasswordLength))
	}
	if cfg.RequireUppercase && !upperRe.MatchString(password) {
		errs = append(errs, "Requer letras maiúsculas")
	}
	if cfg.RequireNumbers && !digitRe.MatchString(password) {
		errs = append(errs, "Requer números")
	}
	if cfg.RequireSpecial && !specialRe.MatchString(password) {
		errs = append(errs, "Requer caracteres especiais")
	}

	res := PasswordCheck{Valid: len(errs) == 0, Errors: errs, Strength: StrengthWeak}
	if res.Valid {
		res.Strength = StrengthMedium
		if length >= cfg.MinPasswordLength+4 &&
			upperRe.MatchString(password) &&
			lowerRe.MatchString(password) &&
			digitRe.MatchString(password) &&
			specialRe.MatchString(password) {
			res.Strength = StrengthStrong
		}
	}
	return res
}

// GenerateProvisionalPassword returns length random characters containing at
// least one uppercase letter, one lowercase letter, one digit and one special
// character. Lengths below 4 are raised to 4; zero selects the default.
func (p *Policy) GenerateProvisionalPassword(length int) (string, error) {
	if length == 0 {
		length = DefaultProvisionalLength
	}
	if length < 4 {
		length = 4
	}

	const all = upperChars + lowerChars + digitChars + specialChars
	buf := make([]byte, 0, length)
	for _, set := range []string{upperChars, lowerChars, digitChars, specialChars} {
		ch, err := p.pick(set)
		if err != nil {
			return "", err
		}
		buf = append(buf, ch)
	}
	for len(buf) < length {
		ch, err := p.pick(all)
		if err != nil {
			return "", err
		}
		buf = append(buf, ch)
	}

	// Fisher-Yates
	for i := len(buf) - 1; i > 0; i-- {
		j, err := p.intn(i + 1)
		if err != nil {
			return "", err
		}
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}

func (p *Policy) pick(set string) (byte, error) {
	i, err := p.intn(len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

func (p *Policy) intn(n int) (int, error) {
	v, err := rand.Int(p.random, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("read random: %w", err)
	}
	return int(v.Int64()), nil
}

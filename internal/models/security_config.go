package models

// SecurityConfig holds the tunable security policy. JSON names match the
// persisted securityConfig document.
type SecurityConfig struct {
	MaxAttempts           int  `json:"maxAttempts"`
	LockoutTimeMinutes    int  `json:"lockoutTime"`
	MinPasswordLength     int  `json:"minPasswordLength"`
	RequireUppercase      bool `json:"requireUppercase"`
	RequireNumbers        bool `json:"requireNumbers"`
	RequireSpecial        bool `json:"requireSpecial"`
	SessionTimeoutMinutes int  `json:"sessionTimeout"`
	PasswordExpiryDays    int  `json:"passwordExpiry"`
}

// DefaultSecurityConfig returns the policy used when nothing is persisted.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MaxAttempts:           5,
		LockoutTimeMinutes:    15,
		MinPasswordLength:     8,
		RequireUppercase:      true,
		RequireNumbers:        true,
		RequireSpecial:        true,
		SessionTimeoutMinutes: 30,
		PasswordExpiryDays:    90,
	}
}

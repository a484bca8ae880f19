package models

import "time"

// Sindicato represents a registered labor union.
// AdminUserID is a back-reference; the sindicato does not own the user.
type Sindicato struct {
	ID          string    `json:"id"`
	Nome        string    `json:"nome"`
	CNPJ        string    `json:"cnpj"` // 14 digits, no punctuation
	Email       string    `json:"email"`
	Fone        string    `json:"fone"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	AdminUserID string    `json:"adminUserId"`
}

// SindicatoInput is the registration payload coming from the console.
type SindicatoInput struct {
	Nome  string `json:"nome"`
	CNPJ  string `json:"cnpj"`
	Email string `json:"email"`
	Fone  string `json:"fone"`
}

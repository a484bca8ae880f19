package models

import "time"

// Document is a persisted JSON record addressed by key
// (users, sindicatos, securityConfig, session).
type Document struct {
	Key       string `gorm:"primaryKey;column:doc_key;size:64"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

package models

import "time"

// Backup is the artifact produced before a destructive operation.
// Hash is a corruption checksum over Data, not a security primitive.
type Backup struct {
	Timestamp time.Time `json:"timestamp"`
	Data      string    `json:"data"`
	Hash      string    `json:"hash"`
}

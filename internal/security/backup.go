package security

import (
	"encoding/json"
	"fmt"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/models"

	"github.com/cespare/xxhash/v2"
)

// CreateBackup serializes entity and stamps it with an xxhash64 checksum of
// the serialized text. The checksum detects corruption only.
func (p *Policy) CreateBackup(entity any) (models.Backup, error) {
	raw, err := json.MarshalIndent(entity, "", "  ")
	if err != nil {
		return models.Backup{}, fmt.Errorf("serialize backup: %w", err)
	}
	return models.Backup{
		Timestamp: p.now(),
		Data:      string(raw),
		Hash:      checksum(raw),
	}, nil
}

// VerifyBackup reports whether b.Data still matches b.Hash.
func VerifyBackup(b models.Backup) bool {
	return checksum([]byte(b.Data)) == b.Hash
}

func checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// Package store persists the console state as a handful of JSON documents
// and keeps the user and sindicato collections in memory.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document keys.
const (
	KeyUsers          = "users"
	KeySindicatos     = "sindicatos"
	KeySecurityConfig = "securityConfig"
	KeySession        = "session"
)

// KV is a key-value store of JSON documents on top of gorm.
type KV struct {
	db *gorm.DB
}

func NewKV(db *gorm.DB) *KV {
	return &KV{db: db}
}

// Get decodes the document at key into dst. It reports false when the key
// does not exist.
func (s *KV) Get(key string, dst any) (bool, error) {
	var doc models.Document
	err := s.db.Where("doc_key = ?", key).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(doc.Value), dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Put stores v under key.
func (s *KV) Put(key string, v any) error {
	return s.PutMany(map[string]any{key: v})
}

// PutMany stores every document in one transaction.
func (s *KV) PutMany(docs map[string]any) error {
	rows := make([]models.Document, 0, len(docs))
	for key, v := range docs {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		rows = append(rows, models.Document{Key: key, Value: string(raw)})
	}
	// stable write order
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })

	return s.db.Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "doc_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&rows[i]).Error
			if err != nil {
				return fmt.Errorf("save %s: %w", rows[i].Key, err)
			}
		}
		return nil
	})
}

// Delete removes the document at key. Missing keys are not an error.
func (s *KV) Delete(key string) error {
	if err := s.db.Where("doc_key = ?", key).Delete(&models.Document{}).Error; err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

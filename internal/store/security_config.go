package store

import (
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/models"
)

// SecurityConfigStore persists the securityConfig document.
type SecurityConfigStore struct {
	kv *KV
}

func NewSecurityConfigStore(kv *KV) *SecurityConfigStore {
	return &SecurityConfigStore{kv: kv}
}

// Load returns the persisted policy, or the defaults when none was saved.
// Fields missing from an older document keep their default value.
func (s *SecurityConfigStore) Load() (models.SecurityConfig, error) {
	cfg := models.DefaultSecurityConfig()
	if _, err := s.kv.Get(KeySecurityConfig, &cfg); err != nil {
		return models.DefaultSecurityConfig(), err
	}
	return cfg, nil
}

func (s *SecurityConfigStore) Save(cfg models.SecurityConfig) error {
	return s.kv.Put(KeySecurityConfig, cfg)
}

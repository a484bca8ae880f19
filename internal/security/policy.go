// Package security holds the in-memory security state of the console:
// password rules, attempt and lockout tracking, session tokens and the
// security log. Expired lockouts and sessions are dropped lazily, the next
// time they are looked at.
package security

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/apperror"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/metrics"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/models"

	"go.uber.org/zap"
)

// ConfigStore loads and saves the persisted policy.
type ConfigStore interface {
	Load() (models.SecurityConfig, error)
	Save(models.SecurityConfig) error
}

// Policy is safe for concurrent use. Every method runs under one mutex, so
// each call observes and leaves the tables in a consistent state.
type Policy struct {
	mu sync.Mutex

	store ConfigStore
	cfg   models.SecurityConfig

	attempts map[string]*models.LoginAttemptRecord
	lockouts map[string]*models.LockoutRecord
	sessions map[string]*models.SessionToken
	log      ring

	now     func() time.Time
	random  io.Reader
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a Policy.
type Option func(*Policy)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Policy) {
		if now != nil {
			p.now = now
		}
	}
}

// WithRandom replaces crypto/rand.Reader as the entropy source.
func WithRandom(r io.Reader) Option {
	return func(p *Policy) {
		if r != nil {
			p.random = r
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Policy) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Policy) {
		p.metrics = m
	}
}

// New loads the persisted configuration from store. A nil store keeps the
// defaults in memory only.
func New(store ConfigStore, opts ...Option) (*Policy, error) {
	p := &Policy{
		store:    store,
		cfg:      models.DefaultSecurityConfig(),
		attempts: make(map[string]*models.LoginAttemptRecord),
		lockouts: make(map[string]*models.LockoutRecord),
		sessions: make(map[string]*models.SessionToken),
		log:      newRing(logCapacity),
		now:      time.Now,
		random:   rand.Reader,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if store != nil {
		cfg, err := store.Load()
		if err != nil {
			return nil, fmt.Errorf("load security config: %w", err)
		}
		p.cfg = cfg
	}
	return p, nil
}

// SecurityConfig returns the policy in effect.
func (p *Policy) SecurityConfig() models.SecurityConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}

// SaveSecurityConfig replaces the policy. It applies to evaluations made
// after it returns; existing lockouts keep the duration they were created with.
func (p *Policy) SaveSecurityConfig(cfg models.SecurityConfig) error {
	if err := checkConfig(cfg); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.store != nil {
		if err := p.store.Save(cfg); err != nil {
			return fmt.Errorf("save security config: %w", err)
		}
	}
	p.cfg = cfg
	p.addLog("Configurações de segurança atualizadas", models.SeverityInfo)
	return nil
}

func checkConfig(cfg models.SecurityConfig) error {
	var details []string
	for _, f := range []struct {
		name string
		v    int
	}{
		{"maxAttempts", cfg.MaxAttempts},
		{"lockoutTime", cfg.LockoutTimeMinutes},
		{"minPasswordLength", cfg.MinPasswordLength},
		{"sessionTimeout", cfg.SessionTimeoutMinutes},
		{"passwordExpiry", cfg.PasswordExpiryDays},
	} {
		if f.v < 1 {
			details = append(details, fmt.Sprintf("%s deve ser maior que zero", f.name))
		}
	}
	if len(details) > 0 {
		return apperror.Validation("Configuração de segurança inválida", details...)
	}
	return nil
}

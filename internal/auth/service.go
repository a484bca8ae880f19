// Package auth orchestrates login, sessions and the sindicato registry on top
// of the security policy and the credential store.
package auth

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/metrics"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/models"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/security"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/store"

	"go.uber.org/zap"
)

const provisionalTTL = 24 * time.Hour

// SessionStore persists the console's current session.
type SessionStore interface {
	Load() (models.SessionSnapshot, bool, error)
	Save(token string, user models.User) error
	Clear() error
}

// BackupWriter stores a backup artifact and returns where it went.
type BackupWriter interface {
	Write(sindicatoID string, b models.Backup) (string, error)
}

// Service is safe for concurrent use; operations are serialised.
type Service struct {
	mu sync.Mutex

	policy  *security.Policy
	creds   *store.CredentialStore
	slot    SessionStore
	archive BackupWriter

	now     func() time.Time
	logger  *zap.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService wires the service. archive may be nil, in which case backups
// are returned to the caller but not written anywhere.
func NewService(policy *security.Policy, creds *store.CredentialStore, slot SessionStore, archive BackupWriter, opts ...Option) *Service {
	s := &Service{
		policy:  policy,
		creds:   creds,
		slot:    slot,
		archive: archive,
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy exposes the security policy the service enforces.
func (s *Service) Policy() *security.Policy {
	return s.policy
}

// GetSindicatos returns a snapshot of the registry.
func (s *Service) GetSindicatos() []models.Sindicato {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.Sindicatos()
}

// GetUsuarios returns a snapshot of every account.
func (s *Service) GetUsuarios() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.Users()
}

// Stats are the dashboard counters.
type Stats struct {
	Sindicatos       int `json:"sindicatos"`
	SindicatosAtivos int `json:"sindicatosAtivos"`
	Usuarios         int `json:"usuarios"`
	Bloqueados       int `json:"bloqueados"`
	SessoesAtivas    int `json:"sessoesAtivas"`
}

func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	sindicatos := s.creds.Sindicatos()
	users := s.creds.Users()
	st := Stats{
		Sindicatos:    len(sindicatos),
		Usuarios:      len(users),
		SessoesAtivas: s.policy.ActiveSessions(),
	}
	for _, sd := range sindicatos {
		if sd.Status == models.StatusActive {
			st.SindicatosAtivos++
		}
	}
	for _, u := range users {
		if s.policy.LockStatus(u.Username).Locked {
			st.Bloqueados++
		}
	}
	return st
}

// EnsureDefaultAdmin seeds the "admin" account when there are no users.
// With an empty password a provisional one is generated and returned so the
// operator can read it once; otherwise the returned string is empty.
func (s *Service) EnsureDefaultAdmin(email, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.creds.Users()) > 0 {
		return "", nil
	}

	now := s.now()
	admin := models.User{
		ID:        "admin-001",
		Username:  "admin",
		Email:     strings.TrimSpace(email),
		Role:      models.RoleAdministrator,
		Status:    models.StatusActive,
		CreatedAt: now,
	}

	var provisional string
	if password != "" {
		hash, err := s.creds.HashPassword(password)
		if err != nil {
			return "", err
		}
		admin.PasswordHash = &hash
	} else {
		pw, err := s.policy.GenerateProvisionalPassword(s.provisionalLength())
		if err != nil {
			return "", err
		}
		hash, err := s.creds.HashPassword(pw)
		if err != nil {
			return "", err
		}
		expiry := now.Add(provisionalTTL)
		admin.ProvisionalPassword = &hash
		admin.ProvisionalPasswordExpiry = &expiry
		provisional = pw
	}

	s.creds.AppendUser(admin)
	if err := s.creds.Persist(store.Users); err != nil {
		return "", fmt.Errorf("seed admin: %w", err)
	}
	s.policy.AddSecurityLog("Usuário administrador padrão criado", models.SeverityInfo)
	return provisional, nil
}

func (s *Service) provisionalLength() int {
	return max(security.DefaultProvisionalLength, s.policy.SecurityConfig().MinPasswordLength)
}

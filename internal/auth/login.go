package auth

import (
	"fmt"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/apperror"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/metrics"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/models"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/store"

	"go.uber.org/zap"
)

const msgInvalidCredentials = "Usuário ou senha incorretos"

// LoginResult is the success branch of Login. SessionToken is empty when
// ForceChangePassword is set: the caller must complete first access before a
// session exists.
type LoginResult struct {
	User                models.User `json:"user"`
	SessionToken        string      `json:"sessionToken,omitempty"`
	ForceChangePassword bool        `json:"forceChangePassword"`
}

// Login authenticates username/password. Failures are *apperror.Error values
// except for storage and randomness errors.
func (s *Service) Login(username, password string) (LoginResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.policy.AccountKey(username)

	if err := s.checkLocked(name); err != nil {
		return LoginResult{}, err
	}

	user, ok := s.creds.FindUserByUsername(name)
	if !ok {
		s.creds.CheckMissing(password)
		return LoginResult{}, s.failLogin(name, nil)
	}

	if !user.IsActive() {
		s.policy.RecordFailedAttempt(name)
		s.metrics.ObserveLogin(metrics.LoginFailure)
		return LoginResult{}, apperror.Authorization("Usuário inativo")
	}

	// every failing path below pays for at least one derivation
	checked := false
	if user.HasProvisionalPassword() {
		checked = true
		if s.creds.CheckPassword(password, *user.ProvisionalPassword) {
			if err := s.checkProvisionalExpiry(&user); err != nil {
				return LoginResult{}, err
			}
			s.metrics.ObserveLogin(metrics.LoginProvisional)
			s.policy.AddSecurityLog(fmt.Sprintf("Login com senha provisória: %s", name), models.SeverityInfo)
			return LoginResult{User: user, ForceChangePassword: true}, nil
		}
	}

	switch {
	case user.HasPassword():
		if !s.creds.CheckPassword(password, *user.PasswordHash) {
			return LoginResult{}, s.failLogin(name, &user)
		}
	case !checked:
		s.creds.CheckMissing(password)
		return LoginResult{}, s.failLogin(name, &user)
	default:
		return LoginResult{}, s.failLogin(name, &user)
	}

	return s.establishSession(user)
}

// CompleteFirstAccess exchanges a valid provisional password for a permanent
// one and only then opens a session.
func (s *Service) CompleteFirstAccess(username, provisional, newPassword, confirmPassword string) (LoginResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.policy.AccountKey(username)

	if err := s.checkLocked(name); err != nil {
		return LoginResult{}, err
	}

	user, ok := s.creds.FindUserByUsername(name)
	eligible := ok && user.IsActive() && user.HasProvisionalPassword()
	if !eligible {
		s.creds.CheckMissing(provisional)
	}
	if !eligible || !s.creds.CheckPassword(provisional, *user.ProvisionalPassword) {
		var u *models.User
		if ok {
			u = &user
		}
		return LoginResult{}, s.failLogin(name, u)
	}
	if err := s.checkProvisionalExpiry(&user); err != nil {
		return LoginResult{}, err
	}

	if err := s.changePassword(user.ID, "", newPassword, confirmPassword); err != nil {
		return LoginResult{}, err
	}
	user, _ = s.creds.FindUserByID(user.ID)
	return s.establishSession(user)
}

func (s *Service) checkLocked(name string) error {
	check := s.policy.CheckLoginAttempt(name)
	if check.Allowed {
		return nil
	}
	s.metrics.ObserveLogin(metrics.LoginLocked)
	return apperror.RateLimit(check.Message).
		With(apperror.FieldLocked, true).
		With(apperror.FieldRemainingMinutes, check.RemainingMinutes)
}

func (s *Service) checkProvisionalExpiry(user *models.User) error {
	if user.ProvisionalPasswordExpiry == nil || !s.now().After(*user.ProvisionalPasswordExpiry) {
		return nil
	}
	res := s.policy.RecordFailedAttempt(user.Username)
	if err := s.mirrorAttempts(user, res.Count); err != nil {
		return err
	}
	s.metrics.ObserveLogin(metrics.LoginFailure)
	return apperror.Authorization("Senha provisória expirada").
		With(apperror.FieldRequireChangePassword, true)
}

// failLogin records a failed attempt and builds the same failure whether or
// not the username exists. user is nil for unknown usernames.
func (s *Service) failLogin(name string, user *models.User) error {
	res := s.policy.RecordFailedAttempt(name)
	if user != nil {
		if err := s.mirrorAttempts(user, res.Count); err != nil {
			return err
		}
	}
	s.metrics.ObserveLogin(metrics.LoginFailure)

	if res.Locked {
		return apperror.Authorization("Conta bloqueada após múltiplas tentativas").
			With(apperror.FieldLocked, true)
	}
	return apperror.Authorization(fmt.Sprintf("%s. Tentativas restantes: %d", msgInvalidCredentials, res.AttemptsRemaining)).
		With(apperror.FieldAttemptsRemaining, res.AttemptsRemaining)
}

func (s *Service) mirrorAttempts(user *models.User, count int) error {
	user.LoginAttempts = count
	s.creds.UpdateUser(*user)
	return s.creds.Persist(store.Users)
}

// establishSession is the tail of a successful login.
func (s *Service) establishSession(user models.User) (LoginResult, error) {
	s.policy.ClearLoginAttempts(user.Username)

	now := s.now()
	user.LastLogin = &now
	user.LoginAttempts = 0

	token, err := s.policy.GenerateSessionToken(user.Username)
	if err != nil {
		return LoginResult{}, err
	}

	s.creds.UpdateUser(user)
	if err := s.creds.Persist(store.Users); err != nil {
		s.policy.RevokeSessionToken(token)
		return LoginResult{}, err
	}
	if err := s.slot.Save(token, user); err != nil {
		s.policy.RevokeSessionToken(token)
		return LoginResult{}, fmt.Errorf("save session: %w", err)
	}

	s.metrics.ObserveLogin(metrics.LoginSuccess)
	s.policy.AddSecurityLog(fmt.Sprintf("Login bem-sucedido: %s", user.Username), models.SeveritySuccess)
	s.logger.Info("login", zap.String("username", user.Username), zap.String("role", user.Role))
	return LoginResult{User: user, SessionToken: token}, nil
}

// Logout ends the persisted session. Calling it without a session is a no-op.
func (s *Service) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok, err := s.slot.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil
	}
	return s.revoke(snap.Token)
}

// RevokeSession ends the session bound to token.
func (s *Service) RevokeSession(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoke(token)
}

func (s *Service) revoke(token string) error {
	if check := s.policy.ValidateSessionToken(token); check.Valid {
		s.policy.AddSecurityLog(fmt.Sprintf("Logout: %s", check.Username), models.SeveritySuccess)
	}
	s.policy.RevokeSessionToken(token)

	snap, ok, err := s.slot.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if ok && snap.Token == token {
		if err := s.slot.Clear(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
	}
	return nil
}

// CurrentUser resolves the persisted session. The token decides; the user is
// re-read from the store, never taken from the snapshot. A stale slot is
// cleared.
func (s *Service) CurrentUser() (models.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok, err := s.slot.Load()
	if err != nil {
		return models.User{}, false, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return models.User{}, false, nil
	}

	user, err := s.userForToken(snap.Token)
	if err != nil {
		if cerr := s.slot.Clear(); cerr != nil {
			return models.User{}, false, fmt.Errorf("clear session: %w", cerr)
		}
		return models.User{}, false, nil
	}
	return user, true, nil
}

// UserForToken resolves a request-bound session token.
func (s *Service) UserForToken(token string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userForToken(token)
}

func (s *Service) userForToken(token string) (models.User, error) {
	check := s.policy.ValidateSessionToken(token)
	if !check.Valid {
		return models.User{}, apperror.Authorization(check.Message)
	}
	user, ok := s.creds.FindUserByUsername(check.Username)
	if !ok || !user.IsActive() {
		s.policy.RevokeSessionToken(token)
		return models.User{}, apperror.Authorization("Sessão inválida")
	}
	return user, nil
}

package security

import (
	"fmt"
	"time"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/models"
)

// AttemptCheck is the result of CheckLoginAttempt.
type AttemptCheck struct {
	Allowed          bool   `json:"allowed"`
	Message          string `json:"message"`
	RemainingMinutes int    `json:"remainingMinutes,omitempty"`
}

// FailedAttempt is the result of RecordFailedAttempt.
type FailedAttempt struct {
	Locked            bool   `json:"locked"`
	Message           string `json:"message,omitempty"`
	AttemptsRemaining int    `json:"attemptsRemaining"`
	Count             int    `json:"count"`
}

// LockStatus describes a username without changing any state.
type LockStatus struct {
	Locked           bool      `json:"locked"`
	Until            time.Time `json:"until"`
	RemainingMinutes int       `json:"remainingMinutes"`
	Attempts         int       `json:"attempts"`
}

// CheckLoginAttempt denies while a lockout is running. An elapsed lockout is
// removed together with the attempt counter.
func (p *Policy) CheckLoginAttempt(username string) AttemptCheck {
	p.mu.Lock()
	defer p.mu.Unlock()

	lock, ok := p.lockouts[username]
	if !ok {
		return AttemptCheck{Allowed: true, Message: "OK"}
	}

	now := p.now()
	until := lock.Until()
	if now.Before(until) {
		mins := ceilMinutes(until.Sub(now))
		p.addLog(fmt.Sprintf("Tentativa de login bloqueado: %s", username), models.SeverityError)
		return AttemptCheck{
			Allowed:          false,
			Message:          fmt.Sprintf("Usuário bloqueado. Tente novamente em %d minutos.", mins),
			RemainingMinutes: mins,
		}
	}

	delete(p.lockouts, username)
	delete(p.attempts, username)
	return AttemptCheck{Allowed: true, Message: "OK"}
}

// RecordFailedAttempt counts a failure and locks the username once the count
// reaches the configured maximum.
func (p *Policy) RecordFailedAttempt(username string) FailedAttempt {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	rec, ok := p.attempts[username]
	if !ok {
		rec = &models.LoginAttemptRecord{FirstAttemptAt: now}
		p.attempts[username] = rec
	}
	rec.Count++
	rec.LastAttemptAt = now

	limit := p.cfg.MaxAttempts
	p.addLog(fmt.Sprintf("Tentativa de login falhada: %s (%d/%d)", username, rec.Count, limit), models.SeverityWarning)

	if rec.Count >= limit {
		p.lockouts[username] = &models.LockoutRecord{
			LockedAt:        now,
			DurationMinutes: p.cfg.LockoutTimeMinutes,
			Reason:          "Múltiplas tentativas de login falhadas",
		}
		p.addLog(fmt.Sprintf("BLOQUEIO ATIVADO: %s bloqueado por %d minutos", username, p.cfg.LockoutTimeMinutes), models.SeverityError)
		p.metrics.ObserveLockout()

		return FailedAttempt{
			Locked:  true,
			Message: fmt.Sprintf("Muitas tentativas falhadas. Conta bloqueada por %d minutos.", p.cfg.LockoutTimeMinutes),
			Count:   rec.Count,
		}
	}

	return FailedAttempt{AttemptsRemaining: limit - rec.Count, Count: rec.Count}
}

// ClearLoginAttempts drops the attempt counter after a successful login.
func (p *Policy) ClearLoginAttempts(username string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.attempts, username)
	p.addLog(fmt.Sprintf("Tentativas de login limpas: %s", username), models.SeveritySuccess)
}

// Unblock removes any lockout and attempt record. It reports whether a
// running lockout was lifted.
func (p *Policy) Unblock(username string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	lock, ok := p.lockouts[username]
	wasLocked := ok && p.now().Before(lock.Until())
	delete(p.lockouts, username)
	delete(p.attempts, username)
	return wasLocked
}

func (p *Policy) LockStatus(username string) LockStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	var st LockStatus
	if rec, ok := p.attempts[username]; ok {
		st.Attempts = rec.Count
	}
	if lock, ok := p.lockouts[username]; ok {
		now, until := p.now(), lock.Until()
		if now.Before(until) {
			st.Locked = true
			st.Until = until
			st.RemainingMinutes = ceilMinutes(until.Sub(now))
		}
	}
	return st
}

func ceilMinutes(d time.Duration) int {
	return int((d + time.Minute - 1) / time.Minute)
}

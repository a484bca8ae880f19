package security

import (
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/models"
)

const tokenBytes = 32

// SessionCheck is the result of ValidateSessionToken.
type SessionCheck struct {
	Valid    bool   `json:"valid"`
	Username string `json:"username,omitempty"`
	Message  string `json:"message,omitempty"`
}

// GenerateSessionToken registers a new 256-bit token for username.
func (p *Policy) GenerateSessionToken(username string) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := io.ReadFull(p.random, buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	p.sessions[token] = &models.SessionToken{Username: username, CreatedAt: now, LastActivityAt: now}
	p.metrics.SetActiveSessions(len(p.sessions))
	p.addLog(fmt.Sprintf("Token de sessão gerado: %s", username), models.SeveritySuccess)
	return token, nil
}

// ValidateSessionToken accepts a known token that was used within the session
// timeout and slides its activity timestamp forward. An idle token is removed.
func (p *Policy) ValidateSessionToken(token string) SessionCheck {
	p.mu.Lock()
	defer p.mu.Unlock()

	sess, ok := p.sessions[token]
	if !ok {
		return SessionCheck{Message: "Token inválido"}
	}

	now := p.now()
	timeout := time.Duration(p.cfg.SessionTimeoutMinutes) * time.Minute
	if now.Sub(sess.LastActivityAt) > timeout {
		delete(p.sessions, token)
		p.metrics.SetActiveSessions(len(p.sessions))
		return SessionCheck{Message: "Sessão expirada"}
	}

	sess.LastActivityAt = now
	return SessionCheck{Valid: true, Username: sess.Username}
}

// RevokeSessionToken forgets token. It reports whether it was known.
func (p *Policy) RevokeSessionToken(token string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.sessions[token]; !ok {
		return false
	}
	delete(p.sessions, token)
	p.metrics.SetActiveSessions(len(p.sessions))
	return true
}

// ActiveSessions counts tokens in the table, including idle ones not yet
// checked again.
func (p *Policy) ActiveSessions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sessions)
}

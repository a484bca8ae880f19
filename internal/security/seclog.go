package security

import (
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/models"

	"go.uber.org/zap"
)

const logCapacity = 100

// ring keeps the newest cap entries; the oldest is overwritten first.
type ring struct {
	buf   []models.SecurityLogEntry
	start int
	n     int
}

func newRing(capacity int) ring {
	return ring{buf: make([]models.SecurityLogEntry, capacity)}
}

func (r *ring) push(e models.SecurityLogEntry) {
	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = e
		r.n++
		return
	}
	r.buf[r.start] = e
	r.start = (r.start + 1) % len(r.buf)
}

// newestFirst returns a copy, most recent entry first.
func (r *ring) newestFirst() []models.SecurityLogEntry {
	out := make([]models.SecurityLogEntry, r.n)
	for i := 0; i < r.n; i++ {
		out[i] = r.buf[(r.start+r.n-1-i)%len(r.buf)]
	}
	return out
}

// AddSecurityLog appends an entry to the audit trail.
func (p *Policy) AddSecurityLog(message string, severity models.Severity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.addLog(message, severity)
}

// GetSecurityLog returns the retained entries, newest first.
func (p *Policy) GetSecurityLog() []models.SecurityLogEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.log.newestFirst()
}

// addLog requires p.mu.
func (p *Policy) addLog(message string, severity models.Severity) {
	if severity == "" {
		severity = models.SeverityInfo
	}
	p.log.push(models.SecurityLogEntry{Timestamp: p.now(), Message: message, Severity: severity})

	fields := []zap.Field{zap.String("severity", string(severity))}
	switch severity {
	case models.SeverityError:
		p.logger.Error(message, fields...)
	case models.SeverityWarning:
		p.logger.Warn(message, fields...)
	default:
		p.logger.Info(message, fields...)
	}
}

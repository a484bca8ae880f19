package store

import (
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/models"
)

// SessionSlot is the persisted "current session" record. It lets the console
// find its identity again after a restart; the token inside is re-validated
// against the in-memory table before it is trusted.
type SessionSlot struct {
	kv *KV
}

func NewSessionSlot(kv *KV) *SessionSlot {
	return &SessionSlot{kv: kv}
}

// Load returns the stored snapshot, or false when the slot is empty.
func (s *SessionSlot) Load() (models.SessionSnapshot, bool, error) {
	var snap models.SessionSnapshot
	ok, err := s.kv.Get(KeySession, &snap)
	if err != nil || !ok || snap.Token == "" {
		return models.SessionSnapshot{}, false, err
	}
	return snap, true, nil
}

func (s *SessionSlot) Save(token string, user models.User) error {
	return s.kv.Put(KeySession, models.SessionSnapshot{Token: token, User: user.Clone()})
}

func (s *SessionSlot) Clear() error {
	return s.kv.Delete(KeySession)
}

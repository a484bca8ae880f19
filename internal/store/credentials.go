package store

import (
	"fmt"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/models"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/util"
)

// Collection names a persisted collection.
type Collection string

const (
	Users      Collection = KeyUsers
	Sindicatos Collection = KeySindicatos
)

// Hasher derives and verifies password encodings. *util.PasswordHasher
// implements it.
type Hasher interface {
	Hash(password string) (string, error)
	Check(password, encoded string) bool
}

// dummySecret feeds the placeholder encoding checked when an account has no
// usable hash. Its plaintext never matters.
const dummySecret = "sd-no-such-account"

// CredentialStore holds users and sindicatos in memory and writes them back
// through KV. Mutators only touch memory; callers commit with Persist.
//
// It is not safe for concurrent use. The auth service serialises access.
// Uniqueness of usernames and CNPJs is the caller's responsibility.
type CredentialStore struct {
	kv     *KV
	hasher Hasher
	dummy  string

	users      []models.User
	sindicatos []models.Sindicato
}

// NewCredentialStore loads both collections and derives the placeholder
// encoding used by CheckMissing.
func NewCredentialStore(kv *KV, hasher Hasher) (*CredentialStore, error) {
	dummy, err := hasher.Hash(dummySecret)
	if err != nil {
		return nil, fmt.Errorf("placeholder hash: %w", err)
	}
	s := &CredentialStore{kv: kv, hasher: hasher, dummy: dummy}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CredentialStore) load() error {
	users := []models.User{}
	if _, err := s.kv.Get(KeyUsers, &users); err != nil {
		return err
	}
	sindicatos := []models.Sindicato{}
	if _, err := s.kv.Get(KeySindicatos, &sindicatos); err != nil {
		return err
	}
	s.users, s.sindicatos = users, sindicatos
	return nil
}

// Persist writes the named collections in one transaction. On failure the
// in-memory state is reloaded from storage so both sides agree again, and the
// write error is returned.
func (s *CredentialStore) Persist(cols ...Collection) error {
	docs := make(map[string]any, len(cols))
	for _, c := range cols {
		switch c {
		case Users:
			docs[KeyUsers] = s.users
		case Sindicatos:
			docs[KeySindicatos] = s.sindicatos
		default:
			return fmt.Errorf("unknown collection %q", c)
		}
	}

	if err := s.kv.PutMany(docs); err != nil {
		if rerr := s.load(); rerr != nil {
			return fmt.Errorf("%w (reload failed: %v)", err, rerr)
		}
		return err
	}
	return nil
}

// ---------- users ----------

// Users returns deep copies of every user.
func (s *CredentialStore) Users() []models.User {
	out := make([]models.User, len(s.users))
	for i := range s.users {
		out[i] = s.users[i].Clone()
	}
	return out
}

func (s *CredentialStore) FindUserByID(id string) (models.User, bool) {
	for i := range s.users {
		if s.users[i].ID == id {
			return s.users[i].Clone(), true
		}
	}
	return models.User{}, false
}

func (s *CredentialStore) FindUserByUsername(username string) (models.User, bool) {
	for i := range s.users {
		if s.users[i].Username == username {
			return s.users[i].Clone(), true
		}
	}
	return models.User{}, false
}

func (s *CredentialStore) AppendUser(u models.User) {
	s.users = append(s.users, u.Clone())
}

// UpdateUser replaces the user with the same ID. It reports false if absent.
func (s *CredentialStore) UpdateUser(u models.User) bool {
	for i := range s.users {
		if s.users[i].ID == u.ID {
			s.users[i] = u.Clone()
			return true
		}
	}
	return false
}

// RemoveUsersBySindicato drops every user bound to sindicatoID and returns them.
func (s *CredentialStore) RemoveUsersBySindicato(sindicatoID string) []models.User {
	var removed []models.User
	kept := s.users[:0:0]
	for _, u := range s.users {
		if u.SindicatoID != "" && u.SindicatoID == sindicatoID {
			removed = append(removed, u)
			continue
		}
		kept = append(kept, u)
	}
	s.users = kept
	return removed
}

// ---------- sindicatos ----------

func (s *CredentialStore) Sindicatos() []models.Sindicato {
	out := make([]models.Sindicato, len(s.sindicatos))
	copy(out, s.sindicatos)
	return out
}

func (s *CredentialStore) FindSindicatoByID(id string) (models.Sindicato, bool) {
	for _, sd := range s.sindicatos {
		if sd.ID == id {
			return sd, true
		}
	}
	return models.Sindicato{}, false
}

// FindSindicatoByCNPJ compares digits only, so formatting is irrelevant.
func (s *CredentialStore) FindSindicatoByCNPJ(cnpj string) (models.Sindicato, bool) {
	want := util.DigitsOnly(cnpj)
	for _, sd := range s.sindicatos {
		if util.DigitsOnly(sd.CNPJ) == want {
			return sd, true
		}
	}
	return models.Sindicato{}, false
}

func (s *CredentialStore) AppendSindicato(sd models.Sindicato) {
	s.sindicatos = append(s.sindicatos, sd)
}

func (s *CredentialStore) RemoveSindicato(id string) (models.Sindicato, bool) {
	for i, sd := range s.sindicatos {
		if sd.ID == id {
			s.sindicatos = append(s.sindicatos[:i:i], s.sindicatos[i+1:]...)
			return sd, true
		}
	}
	return models.Sindicato{}, false
}

// ---------- hashing ----------

func (s *CredentialStore) HashPassword(password string) (string, error) {
	return s.hasher.Hash(password)
}

func (s *CredentialStore) CheckPassword(password, encoded string) bool {
	return s.hasher.Check(password, encoded)
}

// CheckMissing runs the same derivation as CheckPassword against a
// placeholder and always reports false. Callers use it when there is no
// account or no hash to check, so a failure costs the same either way.
func (s *CredentialStore) CheckMissing(password string) bool {
	s.hasher.Check(password, s.dummy)
	return false
}

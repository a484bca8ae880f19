package auth

import (
	"fmt"
	"strings"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/apperror"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/models"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/security"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/store"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const idAttempts = 5

// RegistrationResult carries the provisional password in plaintext. It is
// the only place it ever appears; the store keeps a hash.
type RegistrationResult struct {
	Sindicato           models.Sindicato `json:"sindicato"`
	Usuario             models.User      `json:"usuario"`
	ProvisionalPassword string           `json:"provisionalPassword"`
}

// DeletionResult describes a completed sindicato deletion.
type DeletionResult struct {
	Backup       models.Backup `json:"backup"`
	BackupPath   string        `json:"backupPath,omitempty"`
	RemovedUsers int           `json:"usuariosRemovidos"`
}

// sindicatoBackup is the snapshot archived before a deletion.
type sindicatoBackup struct {
	Sindicato models.Sindicato `json:"sindicato"`
	Usuarios  []models.User    `json:"usuarios"`
}

// CadastrarSindicato registers a sindicato together with its administrator
// account, which starts with a 24h provisional password.
func (s *Service) CadastrarSindicato(in models.SindicatoInput) (RegistrationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nome := strings.TrimSpace(in.Nome)
	email := strings.TrimSpace(in.Email)
	if nome == "" {
		return RegistrationResult{}, apperror.Validation("Nome é obrigatório")
	}
	if !s.policy.ValidateEmail(email) {
		return RegistrationResult{}, apperror.Validation("Email inválido")
	}
	if !s.policy.ValidateCNPJ(in.CNPJ) {
		return RegistrationResult{}, apperror.Validation("CNPJ inválido")
	}
	cnpj := util.DigitsOnly(in.CNPJ)
	if _, dup := s.creds.FindSindicatoByCNPJ(cnpj); dup {
		return RegistrationResult{}, apperror.Conflict("Sindicato com este CNPJ já cadastrado")
	}

	id, username, err := s.newSindicatoID()
	if err != nil {
		return RegistrationResult{}, err
	}

	provisional, err := s.policy.GenerateProvisionalPassword(s.provisionalLength())
	if err != nil {
		return RegistrationResult{}, err
	}
	provisionalHash, err := s.creds.HashPassword(provisional)
	if err != nil {
		return RegistrationResult{}, err
	}

	now := s.now()
	expiry := now.Add(provisionalTTL)
	userID := "user_" + id

	sindicato := models.Sindicato{
		ID:          id,
		Nome:        s.policy.SanitizeInput(nome),
		CNPJ:        cnpj,
		Email:       s.policy.SanitizeInput(email),
		Fone:        s.policy.SanitizeInput(strings.TrimSpace(in.Fone)),
		Status:      models.StatusActive,
		CreatedAt:   now,
		AdminUserID: userID,
	}
	user := models.User{
		ID:                        userID,
		Username:                  username,
		Email:                     sindicato.Email,
		Role:                      models.RoleUnionAdministrator,
		Status:                    models.StatusActive,
		SindicatoID:               id,
		CreatedAt:                 now,
		ProvisionalPassword:       &provisionalHash,
		ProvisionalPasswordExpiry: &expiry,
	}

	s.creds.AppendSindicato(sindicato)
	s.creds.AppendUser(user)
	if err := s.creds.Persist(store.Sindicatos, store.Users); err != nil {
		return RegistrationResult{}, err
	}

	s.metrics.ObserveSindicato("create")
	s.policy.AddSecurityLog(fmt.Sprintf("Novo sindicato cadastrado: %s", sindicato.Nome), models.SeveritySuccess)
	s.logger.Info("sindicato registered", zap.String("id", id), zap.String("admin", username))

	return RegistrationResult{Sindicato: sindicato, Usuario: user, ProvisionalPassword: provisional}, nil
}

// newSindicatoID returns an id and the derived admin username, retrying on
// the rare username prefix collision.
func (s *Service) newSindicatoID() (string, string, error) {
	for i := 0; i < idAttempts; i++ {
		u, err := uuid.NewRandom()
		if err != nil {
			return "", "", fmt.Errorf("generate id: %w", err)
		}
		id := "sind_" + strings.ReplaceAll(u.String(), "-", "")
		username := id[:20]

		if _, taken := s.creds.FindSindicatoByID(id); taken {
			continue
		}
		if _, taken := s.creds.FindUserByUsername(username); taken {
			continue
		}
		return id, username, nil
	}
	return "", "", apperror.Conflict("Não foi possível gerar um identificador único")
}

// ChangePassword sets a new permanent password. When the account already has
// one, current must match it. Provisional credentials are cleared.
func (s *Service) ChangePassword(userID, current, newPassword, confirmPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changePassword(userID, current, newPassword, confirmPassword)
}

func (s *Service) changePassword(userID, current, newPassword, confirmPassword string) error {
	user, ok := s.creds.FindUserByID(userID)
	if !ok {
		return apperror.NotFound("Usuário não encontrado")
	}
	if newPassword != confirmPassword {
		return apperror.Validation("As senhas não conferem")
	}
	if res := s.policy.ValidatePasswordStrength(newPassword); !res.Valid {
		return apperror.Validation("Senha fraca", res.Errors...)
	}
	if user.HasPassword() && !s.creds.CheckPassword(current, *user.PasswordHash) {
		s.policy.AddSecurityLog(fmt.Sprintf("Troca de senha recusada: %s", user.Username), models.SeverityWarning)
		return apperror.Authorization("Senha atual incorreta")
	}

	hash, err := s.creds.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = &hash
	user.ProvisionalPassword = nil
	user.ProvisionalPasswordExpiry = nil

	s.creds.UpdateUser(user)
	if err := s.creds.Persist(store.Users); err != nil {
		return err
	}
	s.policy.AddSecurityLog(fmt.Sprintf("Senha alterada: %s", user.Username), models.SeveritySuccess)
	return nil
}

// DeletarSindicato archives the sindicato and its users, then removes them.
// Nothing is removed if the backup cannot be written.
func (s *Service) DeletarSindicato(id string) (DeletionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sindicato, ok := s.creds.FindSindicatoByID(id)
	if !ok {
		return DeletionResult{}, apperror.NotFound("Sindicato não encontrado")
	}

	snapshot := sindicatoBackup{Sindicato: sindicato, Usuarios: []models.User{}}
	for _, u := range s.creds.Users() {
		if u.SindicatoID == id {
			snapshot.Usuarios = append(snapshot.Usuarios, u)
		}
	}

	backup, err := s.policy.CreateBackup(snapshot)
	if err != nil {
		return DeletionResult{}, err
	}
	var path string
	if s.archive != nil {
		if path, err = s.archive.Write(id, backup); err != nil {
			return DeletionResult{}, err
		}
	}

	s.creds.RemoveSindicato(id)
	removed := s.creds.RemoveUsersBySindicato(id)
	if err := s.creds.Persist(store.Sindicatos, store.Users); err != nil {
		return DeletionResult{}, err
	}

	s.metrics.ObserveSindicato("delete")
	s.policy.AddSecurityLog(fmt.Sprintf("Sindicato excluído: %s", sindicato.Nome), models.SeverityWarning)
	s.logger.Warn("sindicato deleted",
		zap.String("id", id),
		zap.Int("removed_users", len(removed)),
		zap.String("backup", path))

	return DeletionResult{Backup: backup, BackupPath: path, RemovedUsers: len(removed)}, nil
}

// DesbloquearUsuario lifts any lockout on username. It succeeds whether or
// not the username was locked, or exists at all.
func (s *Service) DesbloquearUsuario(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.policy.AccountKey(username)
	s.policy.Unblock(name)

	if user, ok := s.creds.FindUserByUsername(name); ok && user.LoginAttempts != 0 {
		user.LoginAttempts = 0
		s.creds.UpdateUser(user)
		if err := s.creds.Persist(store.Users); err != nil {
			return err
		}
	}

	s.policy.AddSecurityLog(fmt.Sprintf("Usuário desbloqueado: %s", name), models.SeveritySuccess)
	return nil
}

// UserStatus pairs an account with its current lock state.
type UserStatus struct {
	User models.User         `json:"user"`
	Lock security.LockStatus `json:"lock"`
}

// GetUsuariosComStatus lists every account with its lock state, without
// touching the attempt tables.
func (s *Service) GetUsuariosComStatus() []UserStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.creds.Users()
	out := make([]UserStatus, len(users))
	for i, u := range users {
		out[i] = UserStatus{User: u, Lock: s.policy.LockStatus(u.Username)}
	}
	return out
}

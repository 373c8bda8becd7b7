package store

import (
	"errors"
	"time"

	"github.com/edsotopublicidad-gif/Sotos-App/events"
	"github.com/edsotopublicidad-gif/Sotos-App/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUnknownRole   = errors.New("unknown role")
	ErrWrongPassword = errors.New("wrong password")
	ErrWeakPassword  = errors.New("password must be at least 4 characters")
)

// AuthStore owns the per-role passwords.
type AuthStore struct {
	db  *gorm.DB
	bus *events.Bus
	log *zap.Logger
}

func NewAuthStore(db *gorm.DB, bus *events.Bus, log *zap.Logger) *AuthStore {
	return &AuthStore{db: db, bus: bus, log: log}
}

// Verify checks a role's password.
func (s *AuthStore) Verify(role models.UserRole, password string) error {
	if !models.ValidRole(role) {
		return ErrUnknownRole
	}
	var rp models.RolePassword
	if err := s.db.First(&rp, "role = ?", role).Error; err != nil {
		return ErrUnknownRole
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rp.Hash), []byte(password)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// SetPassword rotates a role's secret. Every session of that role opened
// before the change is force-expired, and a logout signal goes out so live
// clients drop to the login screen immediately.
func (s *AuthStore) SetPassword(role models.UserRole, secret string, origin string) error {
	if !models.ValidRole(role) {
		return ErrUnknownRole
	}
	if len(secret) < 4 {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	rp := models.RolePassword{Role: role, Hash: string(hash), ChangedAt: time.Now()}
	if err := s.db.Save(&rp).Error; err != nil {
		s.log.Error("failed to update password", zap.String("role", string(role)), zap.Error(err))
		return err
	}
	s.bus.Publish(events.Event{
		Key:      events.KeyPasswordChanged,
		Payload:  role,
		Sound:    "logout",
		Origin:   origin,
		Audience: []models.UserRole{role},
	})
	s.log.Info("role password changed", zap.String("role", string(role)))
	return nil
}

// ChangedAt returns when a role's password was last rotated. Tokens issued
// before that instant are to be rejected.
func (s *AuthStore) ChangedAt(role models.UserRole) (time.Time, error) {
	var rp models.RolePassword
	if err := s.db.First(&rp, "role = ?", role).Error; err != nil {
		return time.Time{}, ErrUnknownRole
	}
	return rp.ChangedAt, nil
}

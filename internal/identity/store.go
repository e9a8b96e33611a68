package identity

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"mafiatrack/backend/internal/models"
)

// Authenticatable verifies a presented credential.
type Authenticatable interface {
	CheckPassword(password string) bool
	CanLogin() bool
}

// PermissionBearer aggregates administrative capability.
type PermissionBearer interface {
	HasElevatedAccess() bool
}

// Extra carries the optional fields accepted by the creation paths.
// IsSuperuser is a pointer so an explicit false can be told apart from
// "not supplied".
type Extra struct {
	FirstName   string
	LastName    string
	Nickname    string
	Image       string
	IsActive    *bool
	IsSuperuser *bool
}

// Store owns creation and canonical identification of user profiles.
type Store struct {
	db *gorm.DB
}

// NewStore returns a Store backed by the given database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// NormalizeEmail canonicalizes an email address by lowercasing its domain
// part. The local part is preserved as given.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// createProfile is the single creation path shared by CreateUser and
// CreateSuperuser, so normalization and hashing are defined exactly once.
func (s *Store) createProfile(email, password string, extra Extra, superuser bool) (*models.UserProfile, error) {
	if strings.TrimSpace(email) == "" {
		return nil, &ValidationError{Field: "email", Reason: "must be set"}
	}

	user := models.UserProfile{
		Email:       NormalizeEmail(email),
		FirstName:   extra.FirstName,
		LastName:    extra.LastName,
		Nickname:    extra.Nickname,
		Image:       extra.Image,
		IsActive:    true,
		IsSuperuser: superuser,
	}
	if extra.IsActive != nil {
		user.IsActive = *extra.IsActive
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a regular account. The password may be empty, which
// leaves the account unable to authenticate by password.
func (s *Store) CreateUser(email, password string, extra Extra) (*models.UserProfile, error) {
	superuser := false
	if extra.IsSuperuser != nil {
		superuser = *extra.IsSuperuser
	}
	return s.createProfile(email, password, extra, superuser)
}

// CreateSuperuser creates an account with administrative capability.
// Explicitly passing IsSuperuser=false is a contract violation: superuser
// creation must not silently produce a regular account.
func (s *Store) CreateSuperuser(email, password string, extra Extra) (*models.UserProfile, error) {
	if extra.IsSuperuser != nil && !*extra.IsSuperuser {
		return nil, &ValidationError{Field: "is_superuser", Reason: "superuser must have is_superuser=true"}
	}
	return s.createProfile(email, password, extra, true)
}

// Authenticate verifies an email/password pair and returns the matching
// profile. Deactivated accounts are rejected regardless of the password.
func (s *Store) Authenticate(email, password string) (*models.UserProfile, error) {
	var user models.UserProfile
	err := s.db.Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := verifyCredential(&user, password); err != nil {
		return nil, err
	}
	return &user, nil
}

func verifyCredential(a Authenticatable, password string) error {
	if !a.CanLogin() {
		return ErrAccountInactive
	}
	if !a.CheckPassword(password) {
		return ErrInvalidCredentials
	}
	return nil
}

// GetByID fetches a profile by its identifier.
func (s *Store) GetByID(id uint) (*models.UserProfile, error) {
	var user models.UserProfile
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SetActive flips the account's activation flag. Deactivation is the
// supported alternative to deleting an account.
func (s *Store) SetActive(id uint, active bool) (*models.UserProfile, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(user).Update("is_active", active).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Delete permanently removes a profile. Participation records referencing
// it are removed by the database cascade.
func (s *Store) Delete(id uint) error {
	result := s.db.Unscoped().Delete(&models.UserProfile{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserProfile represents a person who can authenticate against the service.
// Email is the login credential; there is no separate username.
type UserProfile struct {
	gorm.Model
	Email        string `gorm:"size:75;uniqueIndex;not null"`
	FirstName    string `gorm:"size:25"`
	LastName     string `gorm:"size:25"`
	Nickname     string `gorm:"size:25"`
	Image        string `gorm:"size:500"` // path to the uploaded avatar
	PasswordHash string `gorm:"size:255"`
	IsActive     bool   `gorm:"not null;default:true"`
	IsSuperuser  bool   `gorm:"not null;default:false"`
}

// SetPassword hashes and stores the given plaintext password. An empty
// password clears the hash, leaving the account unable to log in by password.
func (u *UserProfile) SetPassword(password string) error {
	if password == "" {
		u.PasswordHash = ""
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the given plaintext password matches the
// stored hash. Accounts without a stored hash never match.
func (u *UserProfile) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// CanLogin reports whether the account is allowed to authenticate at all.
func (u *UserProfile) CanLogin() bool {
	return u.IsActive
}

// HasElevatedAccess reports whether the account holds administrative
// capability.
func (u *UserProfile) HasElevatedAccess() bool {
	return u.IsSuperuser
}

// FullName returns the display name built from the optional name parts.
func (u *UserProfile) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// String returns the profile's short display label.
func (u *UserProfile) String() string {
	return u.Nickname
}

package identity

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mafiatrack/backend/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(&models.UserProfile{}, &models.Game{}, &models.Role{}, &models.GameParticipation{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{name: "lowercases domain", email: "Don@EXAMPLE.Com", want: "Don@example.com"},
		{name: "preserves local part", email: "Don.C@example.com", want: "Don.C@example.com"},
		{name: "trims whitespace", email: "  don@example.com ", want: "don@example.com"},
		{name: "no at sign", email: "not-an-address", want: "not-an-address"},
		{name: "multiple at signs", email: "a@b@EXAMPLE.COM", want: "a@b@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeEmail(tt.email); got != tt.want {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}

func TestCreateUser(t *testing.T) {
	store := NewStore(testDB(t))

	user, err := store.CreateUser("Don@EXAMPLE.Com", "secretpass", Extra{
		FirstName: "Don",
		LastName:  "Corleone",
		Nickname:  "thedon",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if user.ID == 0 {
		t.Error("expected a generated identifier")
	}
	if user.Email != "Don@example.com" {
		t.Errorf("email = %q, want normalized %q", user.Email, "Don@example.com")
	}
	if user.IsSuperuser {
		t.Error("IsSuperuser should default to false")
	}
	if !user.IsActive {
		t.Error("IsActive should default to true")
	}
	if user.PasswordHash == "" || user.PasswordHash == "secretpass" {
		t.Error("password must be stored hashed, never raw")
	}
	if !user.CheckPassword("secretpass") {
		t.Error("stored hash should verify the original password")
	}
}

func TestCreateUserEmptyEmail(t *testing.T) {
	store := NewStore(testDB(t))

	for _, email := range []string{"", "   "} {
		_, err := store.CreateUser(email, "secretpass", Extra{})
		if _, ok := AsValidationError(err); !ok {
			t.Errorf("CreateUser(%q) error = %v, want ValidationError", email, err)
		}
	}
}

func TestCreateUserWithoutPassword(t *testing.T) {
	store := NewStore(testDB(t))

	user, err := store.CreateUser("ghost@example.com", "", Extra{})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.PasswordHash != "" {
		t.Error("unset password should leave no hash")
	}

	if _, err := store.Authenticate("ghost@example.com", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("passwordless account Authenticate error = %v, want ErrInvalidCredentials", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	store := NewStore(testDB(t))

	if _, err := store.CreateUser("don@example.com", "secretpass", Extra{}); err != nil {
		t.Fatalf("first CreateUser: %v", err)
	}

	// Same address after normalization
	_, err := store.CreateUser("don@EXAMPLE.COM", "otherpass", Extra{})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("duplicate CreateUser error = %v, want gorm.ErrDuplicatedKey", err)
	}
}

func TestCreateSuperuser(t *testing.T) {
	store := NewStore(testDB(t))

	user, err := store.CreateSuperuser("boss@example.com", "secretpass", Extra{})
	if err != nil {
		t.Fatalf("CreateSuperuser: %v", err)
	}
	if !user.IsSuperuser {
		t.Error("CreateSuperuser should default IsSuperuser to true")
	}
	if !user.HasElevatedAccess() {
		t.Error("superuser should report elevated access")
	}
}

func TestCreateSuperuserExplicitFalse(t *testing.T) {
	store := NewStore(testDB(t))

	superuser := false
	_, err := store.CreateSuperuser("boss@example.com", "secretpass", Extra{IsSuperuser: &superuser})
	if _, ok := AsValidationError(err); !ok {
		t.Errorf("error = %v, want ValidationError", err)
	}

	// The record must not have been persisted.
	var count int64
	store.db.Model(&models.UserProfile{}).Count(&count)
	if count != 0 {
		t.Errorf("user count = %d, want 0", count)
	}
}

func TestAuthenticate(t *testing.T) {
	store := NewStore(testDB(t))

	if _, err := store.CreateUser("don@example.com", "secretpass", Extra{}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "ok", email: "don@example.com", password: "secretpass"},
		{name: "unnormalized email ok", email: "don@EXAMPLE.COM", password: "secretpass"},
		{name: "wrong password", email: "don@example.com", password: "nope", wantErr: ErrInvalidCredentials},
		{name: "unknown email", email: "who@example.com", password: "secretpass", wantErr: ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Authenticate(tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Authenticate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthenticateInactive(t *testing.T) {
	store := NewStore(testDB(t))

	user, err := store.CreateUser("don@example.com", "secretpass", Extra{})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := store.SetActive(user.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	if _, err := store.Authenticate("don@example.com", "secretpass"); !errors.Is(err, ErrAccountInactive) {
		t.Errorf("Authenticate error = %v, want ErrAccountInactive", err)
	}

	if _, err := store.SetActive(user.ID, true); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if _, err := store.Authenticate("don@example.com", "secretpass"); err != nil {
		t.Errorf("reactivated account Authenticate error = %v", err)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	store := NewStore(testDB(t))

	created, err := store.CreateSuperuser("boss@Example.COM", "secretpass", Extra{
		FirstName: "Vito",
		LastName:  "Corleone",
		Nickname:  "vito",
	})
	if err != nil {
		t.Fatalf("CreateSuperuser: %v", err)
	}

	loaded, err := store.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if loaded.Email != created.Email {
		t.Errorf("email = %q, want %q", loaded.Email, created.Email)
	}
	if loaded.FirstName != "Vito" || loaded.LastName != "Corleone" {
		t.Errorf("name = %q %q, want Vito Corleone", loaded.FirstName, loaded.LastName)
	}
	if !loaded.IsSuperuser {
		t.Error("IsSuperuser flag lost on reload")
	}
	if loaded.FullName() != "Vito Corleone" {
		t.Errorf("FullName() = %q", loaded.FullName())
	}
}

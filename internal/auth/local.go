package auth

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/rgcpoolandspa/poolsite/internal/config"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
)

// LocalProvider authenticates admins against the local database.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate checks username and password and returns the matching admin.
func (p *LocalProvider) Authenticate(username, password string) (*models.Admin, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	var admin models.Admin

	err := p.db.Where("username = ?", username).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, errors.Wrap(err, "failed to query admin")
	}

	if !admin.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	return &admin, nil
}

// CreateAdmin creates a new admin with a hashed password.
func (p *LocalProvider) CreateAdmin(username, email, password string) (*models.Admin, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	var existing models.Admin

	err := p.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil, ErrUsernameExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "failed to check existing admin")
	}

	admin := models.Admin{
		Username: username,
		Email:    email,
		Password: models.HashPassword(password),
	}

	if err := p.db.Create(&admin).Error; err != nil {
		return nil, errors.Wrap(err, "failed to create admin")
	}

	return &admin, nil
}

// SetPassword replaces the password of the admin named username.
func (p *LocalProvider) SetPassword(username, newPassword string) error {
	if username == "" || newPassword == "" {
		return ErrMissingCredentials
	}

	res := p.db.Model(&models.Admin{}).
		Where("username = ?", username).
		Update("password", models.HashPassword(newPassword))
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to update password")
	}

	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// GetByID retrieves an admin by id.
func (p *LocalProvider) GetByID(adminID uint64) (*models.Admin, error) {
	var admin models.Admin

	err := p.db.First(&admin, adminID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, errors.Wrap(err, "failed to load admin")
	}

	return &admin, nil
}

// EnsureBootstrapAdmin creates the configured admin when no admin exists yet.
// It reports whether an admin was created.
func (p *LocalProvider) EnsureBootstrapAdmin(cfg config.Admin) (bool, error) {
	var count int64
	if err := p.db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to count admins")
	}

	if count > 0 {
		return false, nil
	}

	if _, err := p.CreateAdmin(cfg.Username, cfg.Email, cfg.Password); err != nil {
		return false, err
	}

	return true, nil
}

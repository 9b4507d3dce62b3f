package application

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/oksasatya/go-user-api/internal/domain/entity"
	"github.com/oksasatya/go-user-api/internal/repository"
	"github.com/oksasatya/go-user-api/pkg/helpers"
	"github.com/oksasatya/go-user-api/pkg/pagination"
	"github.com/oksasatya/go-user-api/pkg/validation"
)

// UserCreate is the validated creation input for User. Validate must run
// before the value reaches the repository: it normalizes the email,
// enforces password complexity, and replaces the plaintext with its bcrypt
// hash, the only form ever persisted.
type UserCreate struct {
	Email    string
	Password string

	hashed bool
}

// Validate applies the field rules in order: email lowercasing, password
// complexity, password hashing.
func (c *UserCreate) Validate() error {
	c.Email = validation.NormalizeEmail(c.Email)
	if err := validation.ValidatePasswordComplexity(c.Password); err != nil {
		return err
	}
	hash, err := helpers.HashPassword(c.Password)
	if err != nil {
		return err
	}
	c.Password = hash
	c.hashed = true
	return nil
}

func (c *UserCreate) Apply(u *entity.User) {
	now := time.Now().UTC()
	u.Email = c.Email
	u.Password = c.Password
	u.CreatedAt = now
	u.UpdatedAt = now
}

// UserUpdate is the partial update input: nil fields stay untouched.
// UpdatedAt is always refreshed.
type UserUpdate struct {
	Email *string
}

func (c *UserUpdate) Validate() error {
	if c.Email != nil {
		norm := validation.NormalizeEmail(*c.Email)
		c.Email = &norm
	}
	return nil
}

func (c *UserUpdate) Apply(u *entity.User) {
	if c.Email != nil {
		u.Email = *c.Email
	}
	u.UpdatedAt = time.Now().UTC()
}

// UserManager binds the generic repository/manager pair to the User entity.
type UserManager = Manager[entity.User, *UserCreate, *UserUpdate]

// UserPage is the page envelope over stored users.
type UserPage = pagination.Page[*entity.User]

func NewUserManager(db *bun.DB, codec *pagination.Codec) *UserManager {
	repo := repository.NewRepository[entity.User, *UserCreate, *UserUpdate](db, entity.UserMeta, codec)
	return NewManager(repo)
}

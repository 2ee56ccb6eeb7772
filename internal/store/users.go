package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/petermazzocco/go-photo-gallery/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// HashPassword returns the bcrypt hash stored in users.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// FindByUsername returns nil and no error when no row matches.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user *models.User
	err := withConn(ctx, s.db, "find user", func(tx *gorm.DB) error {
		var err error
		user, err = findByUsername(tx, username)
		return err
	})
	return user, err
}

func findByUsername(tx *gorm.DB, username string) (*models.User, error) {
	var users []models.User
	if err := tx.Where("username = ?", username).Limit(1).Find(&users).Error; err != nil {
		return nil, classify("find user", err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// Create inserts a user row with an already hashed password. The id is
// assigned by the store.
func (s *UserStore) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	var user *models.User
	err := withConn(ctx, s.db, "create user", func(tx *gorm.DB) error {
		var err error
		user, err = create(tx, username, passwordHash)
		return err
	})
	return user, err
}

func create(tx *gorm.DB, username, passwordHash string) (*models.User, error) {
	user := &models.User{Username: username, PasswordHash: passwordHash}
	if err := tx.Create(user).Error; err != nil {
		return nil, classify("create user", err)
	}
	return user, nil
}

// Register checks the username is free and inserts the user on the same
// connection. Two concurrent signups can both pass the check; the unique
// index on username rejects the second insert with ErrDuplicateUsername.
func (s *UserStore) Register(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var user *models.User
	err = withConn(ctx, s.db, "register", func(tx *gorm.DB) error {
		existing, err := findByUsername(tx, username)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("register %q: %w", username, ErrDuplicateUsername)
		}
		user, err = create(tx, username, hash)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Verify returns the user whose password matches, or nil when the username
// is unknown or the password is wrong.
func (s *UserStore) Verify(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.FindByUsername(ctx, username)
	if err != nil || user == nil {
		return nil, err
	}
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("compare password: %w", err)
	}
	return user, nil
}

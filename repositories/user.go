//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"chat-core/errors"
)

type IUserRepository interface {
	CreateUser(email, displayName, hashedPassword string) (string, error)
	GetUserByEmail(email string) (User, error)
	GetUserByID(userID string) (User, error)
}

// UserRepository stores login credentials for the bundled identity issuer.
// The chat core itself only ever sees the identifiers these records carry.
type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
}

type diskUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	PasswordHash string `json:"password_hash"`
	CreatedAt    int64  `json:"created_at"`
}

// CreateUser persists the credential record under the email key and a
// reverse index under the id, so the directory sync can resolve profiles by
// identifier. Returns the newly generated user id.
func (u *UserRepository) CreateUser(email, displayName, hashedPassword string) (string, error) {
	newID := uuid.New().String()
	disk := diskUser{
		ID:           newID,
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().Unix(),
	}
	data, err := sonic.Marshal(disk)
	if err != nil {
		return "", fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		key := []byte("user:" + email)
		if _, err = txn.Get(key); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err = txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set([]byte("userid:"+newID), []byte(email))
	})

	return newID, err
}

func (u *UserRepository) GetUserByEmail(email string) (User, error) {
	var disk diskUser
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("user:" + email))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return sonic.Unmarshal(val, &disk)
		})
	})
	if err != nil {
		return User{}, err
	}
	return toUser(disk), nil
}

// GetUserByID resolves the reverse index first, then reads the full record.
func (u *UserRepository) GetUserByID(userID string) (User, error) {
	var disk diskUser
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("userid:" + userID))
		if err != nil {
			return err
		}
		var email string
		if err = item.Value(func(val []byte) error {
			email = string(val)
			return nil
		}); err != nil {
			return err
		}
		item, err = txn.Get([]byte("user:" + email))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return sonic.Unmarshal(val, &disk)
		})
	})
	if err != nil {
		return User{}, err
	}
	return toUser(disk), nil
}

func toUser(disk diskUser) User {
	return User{
		ID:           disk.ID,
		Email:        disk.Email,
		DisplayName:  disk.DisplayName,
		PasswordHash: disk.PasswordHash,
		CreatedAt:    time.Unix(disk.CreatedAt, 0).UTC(),
	}
}

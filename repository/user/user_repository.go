package user

import (
	"context"
	"database/sql"

	"github.com/aditpras/storefront/model"
	"github.com/jmoiron/sqlx"
)

type SQL struct {
	conn *sqlx.DB
}

// UserRepository reads and writes shopper accounts. Email is the login key;
// the lookup methods return (nil, nil) when no row matches so callers can
// distinguish absence from failure.
type UserRepository interface {
	Create(ctx context.Context, user *model.UserEntity) (*model.UserEntity, error)
	GetByEmail(ctx context.Context, email string) (*model.UserEntity, error)
	GetByID(ctx context.Context, id uint64) (*model.UserEntity, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

func NewUserRepository(conn *sqlx.DB) UserRepository {
	return &SQL{conn: conn}
}

const (
	insertUserQuery = `INSERT INTO user (name, email, phone, password_hash, street, city, state, postal_code, country, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())`

	selectUserColumns = `SELECT id, name, email, phone, password_hash, street, city, state, postal_code, country, created_at, updated_at FROM user`
)

func (s *SQL) Create(ctx context.Context, user *model.UserEntity) (*model.UserEntity, error) {
	result, err := s.conn.ExecContext(ctx, insertUserQuery,
		user.Name, user.Email, user.Phone, user.PasswordHash,
		user.Street, user.City, user.State, user.PostalCode, user.Country)
	if err != nil {
		return nil, err
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	user.ID = uint64(lastID)
	return user, nil
}

func (s *SQL) GetByEmail(ctx context.Context, email string) (*model.UserEntity, error) {
	var user model.UserEntity
	if err := s.conn.QueryRowxContext(ctx, selectUserColumns+" WHERE email = ?", email).StructScan(&user); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *SQL) GetByID(ctx context.Context, id uint64) (*model.UserEntity, error) {
	var user model.UserEntity
	if err := s.conn.QueryRowxContext(ctx, selectUserColumns+" WHERE id = ?", id).StructScan(&user); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *SQL) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var id uint64
	err := s.conn.GetContext(ctx, &id, "SELECT id FROM user WHERE phone = ?", phone)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

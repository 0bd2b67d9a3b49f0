package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pwalcz/cinema-ticket-booking/internal/model"
	"github.com/pwalcz/cinema-ticket-booking/internal/utils"
)

// ErrUserNotFound indicates that a user does not exist in the global DB.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameTaken indicates a registration attempt with a username
// that already exists.
var ErrUsernameTaken = errors.New("username already exists")

// UserRepo provides access to accounts in the global database.  It is
// the only repository bound to the global store; everything else is
// regional.  Regional records reference users by id with no foreign
// key across databases, so a looked-up user may have been deleted
// after a reservation was created: callers must tolerate that.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the global database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create registers a new user with a bcrypt-hashed password and
// returns the generated id.  The username column is unique;
// duplicates are reported as ErrUsernameTaken.
func (r *UserRepo) Create(ctx context.Context, u *model.User, password string, bcryptCost int) error {
	hash, err := utils.HashPassword(password, bcryptCost)
	if err != nil {
		return err
	}
	const q = `INSERT INTO users (username, first_name, last_name, email, password_hash, role) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, u.Username, u.FirstName, u.LastName, u.Email, hash, u.Role)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrUsernameTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	u.PasswordHash = hash
	return nil
}

// GetByUsername loads a user by username for login.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `SELECT id, username, first_name, last_name, email, password_hash, role FROM users WHERE username = ?`
	return r.get(ctx, q, username)
}

// GetByID loads a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = `SELECT id, username, first_name, last_name, email, password_hash, role FROM users WHERE id = ?`
	return r.get(ctx, q, id)
}

func (r *UserRepo) get(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// List returns all users, for employee views.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	const q = `SELECT id, username, first_name, last_name, email, password_hash, role FROM users ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

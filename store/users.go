package store

import (
	"database/sql"
	"time"
)

// User is a registered staff member. Login is by mobile number and role.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Mobile       string    `json:"mobile"`
	Email        *string   `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (db *DB) CreateUser(u *User) error {
	return db.QueryRow(db.Q(`INSERT INTO users (name, mobile, email, password_hash, role) VALUES (?, ?, ?, ?, ?) RETURNING id`),
		u.Name, u.Mobile, u.Email, u.PasswordHash, u.Role).Scan(&u.ID)
}

// GetUserByMobileRole looks up a user by mobile and role, or nil if absent.
func (db *DB) GetUserByMobileRole(mobile, role string) (*User, error) {
	u := &User{}
	var created any
	err := db.QueryRow(db.Q(`SELECT id, name, mobile, email, password_hash, role, created_at FROM users WHERE mobile = ? AND role = ?`), mobile, role).
		Scan(&u.ID, &u.Name, &u.Mobile, &u.Email, &u.PasswordHash, &u.Role, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = parseTime(created)
	return u, nil
}

func (db *DB) UserExistsByMobile(mobile string) (bool, error) {
	var count int
	err := db.QueryRow(db.Q(`SELECT COUNT(*) FROM users WHERE mobile = ?`), mobile).Scan(&count)
	return count > 0, err
}

// ListUsers returns all users. Password hashes stay out of serialized output.
func (db *DB) ListUsers() ([]User, error) {
	rows, err := db.Query(`SELECT id, name, mobile, email, password_hash, role, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		var u User
		var created any
		if err := rows.Scan(&u.ID, &u.Name, &u.Mobile, &u.Email, &u.PasswordHash, &u.Role, &created); err != nil {
			return nil, err
		}
		u.CreatedAt = parseTime(created)
		users = append(users, u)
	}
	return users, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/pacomprar/auction-api/internal/model"
)

// UserRepo manages persistence for the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")
)

const userCols = "id,username,email,password_hash,is_staff,birth_date,locality,municipality,created_at,updated_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsStaff,
		&u.BirthDate, &u.Locality, &u.Municipality, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a user and returns its ID. The password must already be
// hashed; hashing happens in the handler so the repository never sees a
// plaintext credential.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (uint64, error) {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, birth_date, locality, municipality) VALUES (?,?,?,?,?,?)",
		u.Username, u.Email, u.PasswordHash, u.BirthDate, u.Locality, u.Municipality)
	if err != nil {
		// 1062 = duplicate key; the message names the violated index
		low := strings.ToLower(err.Error())
		if strings.Contains(low, "1062") {
			if strings.Contains(low, "email") {
				return 0, ErrEmailExists
			}
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = uint64(id)
	return u.ID, nil
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE username=? LIMIT 1", strings.TrimSpace(username))
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// List returns all users ordered by id. Intended for admin endpoints only.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userCols+" FROM users ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateProfile overwrites the mutable profile columns of a user. The caller
// passes the full desired state; partial-update merging happens in the
// handler, which loads the row first.
func (r *UserRepo) UpdateProfile(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET email=?, birth_date=?, locality=?, municipality=?, updated_at=NOW() WHERE id=?",
		u.Email, u.BirthDate, u.Locality, u.Municipality, u.ID)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrEmailExists
	}
	return err
}

// SetStaff flips the staff flag. Admin-only; regular profile updates never
// touch this column.
func (r *UserRepo) SetStaff(ctx context.Context, id uint64, staff bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_staff=?, updated_at=NOW() WHERE id=?", staff, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// could also mean the flag already had this value; re-check existence
		var one int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=?", id).Scan(&one); err != nil {
			return ErrUserNotFound
		}
	}
	return nil
}

// UpdatePassword replaces a user's password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, updated_at=NOW() WHERE id=?", passwordHash, id)
	return err
}

// Delete removes a user and every record that hangs off them: refresh
// tokens, comments, ratings and bids they authored, plus the auctions they
// own together with those auctions' bids, ratings and comments. Everything
// happens in one transaction so a failed delete leaves the account intact.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var locked uint64
	err = tx.QueryRowContext(ctx, "SELECT id FROM users WHERE id=? FOR UPDATE", id).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	// Auctions this user rated need their mean recomputed after the
	// cascade; collect them before the rating rows disappear.
	rated := []uint64{}
	rows, err := tx.QueryContext(ctx,
		"SELECT DISTINCT auction_id FROM ratings WHERE rater_id=?", id)
	if err != nil {
		return err
	}
	for rows.Next() {
		var aid uint64
		if err := rows.Scan(&aid); err != nil {
			rows.Close()
			return err
		}
		rated = append(rated, aid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	stmts := []string{
		"DELETE FROM refresh_tokens WHERE user_id=?",
		"DELETE FROM comments WHERE author_id=?",
		"DELETE FROM ratings WHERE rater_id=?",
		"DELETE FROM bids WHERE bidder_id=?",
		// children of the auctions this user owns
		"DELETE FROM comments WHERE auction_id IN (SELECT id FROM auctions WHERE owner_id=?)",
		"DELETE FROM ratings WHERE auction_id IN (SELECT id FROM auctions WHERE owner_id=?)",
		"DELETE FROM bids WHERE auction_id IN (SELECT id FROM auctions WHERE owner_id=?)",
		"DELETE FROM auctions WHERE owner_id=?",
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", id); err != nil {
		return err
	}
	// Auctions the user owned are gone; the UPDATE simply matches no row.
	for _, aid := range rated {
		if _, err := tx.ExecContext(ctx,
			"UPDATE auctions SET rating=(SELECT AVG(value) FROM ratings WHERE auction_id=?) WHERE id=?",
			aid, aid); err != nil {
			return err
		}
	}
	return tx.Commit()
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/pacomprar/auction-api/internal/model"
)

// ErrCategoryNotFound indicates that a category row does not exist.
var ErrCategoryNotFound = errors.New("category not found")

// ErrCategoryNameExists indicates a unique-name violation on insert/update.
var ErrCategoryNameExists = errors.New("category name already exists")

// CategoryRepo encapsulates database queries for the 'categories' table.
type CategoryRepo struct{ db *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// Create inserts a category and populates its ID.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	res, err := r.db.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", c.Name)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrCategoryNameExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID fetches one category or ErrCategoryNotFound.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (*model.Category, error) {
	var c model.Category
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name FROM categories WHERE id=?", id).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by id.
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update renames a category.
func (r *CategoryRepo) Update(ctx context.Context, c *model.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	res, err := r.db.ExecContext(ctx, "UPDATE categories SET name=? WHERE id=?", c.Name, c.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrCategoryNameExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// either missing or renamed to the same value; disambiguate
		if _, err := r.GetByID(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a category. A category still referenced by auctions cannot
// be deleted; that case returns ErrConflict so the handler can answer 409.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM auctions WHERE category_id=?", id).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id=?", id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

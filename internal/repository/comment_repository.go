package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pacomprar/auction-api/internal/model"
)

// ErrCommentNotFound indicates that a comment row does not exist under the
// given auction.
var ErrCommentNotFound = errors.New("comment not found")

// CommentRepo manages persistence for the 'comments' table.
type CommentRepo struct{ db *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{db: db} }

const commentCols = "id, auction_id, author_id, title, body, created_at, updated_at"

func scanComment(row interface{ Scan(...any) error }) (*model.Comment, error) {
	var cm model.Comment
	err := row.Scan(&cm.ID, &cm.AuctionID, &cm.AuthorID, &cm.Title, &cm.Body,
		&cm.CreatedAt, &cm.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &cm, nil
}

// Create inserts a comment and populates its ID and timestamps.
func (r *CommentRepo) Create(ctx context.Context, cm *model.Comment) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO comments (auction_id, author_id, title, body) VALUES (?,?,?,?)",
		cm.AuctionID, cm.AuthorID, cm.Title, cm.Body)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cm.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM comments WHERE id=?", cm.ID).
		Scan(&cm.CreatedAt, &cm.UpdatedAt)
}

// GetByID fetches one comment scoped to an auction.
func (r *CommentRepo) GetByID(ctx context.Context, auctionID, commentID uint64) (*model.Comment, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+commentCols+" FROM comments WHERE id=? AND auction_id=?", commentID, auctionID)
	cm, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCommentNotFound
	}
	return cm, err
}

// ListByAuction returns an auction's comments oldest first.
func (r *CommentRepo) ListByAuction(ctx context.Context, auctionID uint64) ([]model.Comment, error) {
	return r.queryComments(ctx,
		"SELECT "+commentCols+" FROM comments WHERE auction_id=? ORDER BY id ASC", auctionID)
}

// ListByAuthor returns all comments a user has written, ordered by id.
func (r *CommentRepo) ListByAuthor(ctx context.Context, authorID uint64) ([]model.Comment, error) {
	return r.queryComments(ctx,
		"SELECT "+commentCols+" FROM comments WHERE author_id=? ORDER BY id ASC", authorID)
}

func (r *CommentRepo) queryComments(ctx context.Context, q string, args ...any) ([]model.Comment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Comment{}
	for rows.Next() {
		cm, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *cm)
	}
	return out, rows.Err()
}

// Update overwrites a comment's title and body.
func (r *CommentRepo) Update(ctx context.Context, cm *model.Comment) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE comments SET title=?, body=?, updated_at=NOW() WHERE id=?",
		cm.Title, cm.Body, cm.ID)
	return err
}

// Delete removes one comment.
func (r *CommentRepo) Delete(ctx context.Context, commentID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM comments WHERE id=?", commentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCommentNotFound
	}
	return nil
}

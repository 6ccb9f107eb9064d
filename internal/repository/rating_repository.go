// Rating persistence. Every mutation recomputes the owning auction's mean
// rating inside the same transaction, so the derived auctions.rating column
// is consistent with the ratings table before the request returns.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/pacomprar/auction-api/internal/model"
)

var (
	// ErrRatingNotFound indicates that a rating row does not exist under the
	// given auction.
	ErrRatingNotFound = errors.New("rating not found")
	// ErrDuplicateRating indicates the (auction, user) pair already has a
	// rating; the unique index enforces at most one.
	ErrDuplicateRating = errors.New("user already rated this auction")
)

// RatingRepo manages persistence for the 'ratings' table.
type RatingRepo struct{ db *sql.DB }

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{db: db} }

const ratingCols = "id, auction_id, rater_id, value, created_at, updated_at"

func scanRating(row interface{ Scan(...any) error }) (*model.Rating, error) {
	var rt model.Rating
	err := row.Scan(&rt.ID, &rt.AuctionID, &rt.RaterID, &rt.Value, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// recomputeMean refreshes auctions.rating from the ratings table. AVG over an
// empty set yields NULL, which correctly reverts an unrated auction.
func recomputeMean(ctx context.Context, tx *sql.Tx, auctionID uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE auctions SET rating=(SELECT AVG(value) FROM ratings WHERE auction_id=?) WHERE id=?",
		auctionID, auctionID)
	return err
}

// Create inserts a rating and recomputes the auction mean in one transaction.
// A second rating by the same user on the same auction fails with
// ErrDuplicateRating and leaves the mean untouched.
func (r *RatingRepo) Create(ctx context.Context, rt *model.Rating) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO ratings (auction_id, rater_id, value) VALUES (?,?,?)",
		rt.AuctionID, rt.RaterID, rt.Value)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateRating
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)
	if err := recomputeMean(ctx, tx, rt.AuctionID); err != nil {
		return err
	}
	if err := tx.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM ratings WHERE id=?", rt.ID).
		Scan(&rt.CreatedAt, &rt.UpdatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID fetches one rating scoped to an auction.
func (r *RatingRepo) GetByID(ctx context.Context, auctionID, ratingID uint64) (*model.Rating, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+ratingCols+" FROM ratings WHERE id=? AND auction_id=?", ratingID, auctionID)
	rt, err := scanRating(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRatingNotFound
	}
	return rt, err
}

// GetByAuctionAndRater fetches the single rating a user holds on an auction.
func (r *RatingRepo) GetByAuctionAndRater(ctx context.Context, auctionID, raterID uint64) (*model.Rating, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+ratingCols+" FROM ratings WHERE auction_id=? AND rater_id=?", auctionID, raterID)
	rt, err := scanRating(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRatingNotFound
	}
	return rt, err
}

// ListByAuction returns an auction's ratings ordered by id.
func (r *RatingRepo) ListByAuction(ctx context.Context, auctionID uint64) ([]model.Rating, error) {
	return r.queryRatings(ctx,
		"SELECT "+ratingCols+" FROM ratings WHERE auction_id=? ORDER BY id ASC", auctionID)
}

// ListByRater returns all ratings a user has given, ordered by id.
func (r *RatingRepo) ListByRater(ctx context.Context, raterID uint64) ([]model.Rating, error) {
	return r.queryRatings(ctx,
		"SELECT "+ratingCols+" FROM ratings WHERE rater_id=? ORDER BY id ASC", raterID)
}

func (r *RatingRepo) queryRatings(ctx context.Context, q string, args ...any) ([]model.Rating, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Rating{}
	for rows.Next() {
		rt, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rt)
	}
	return out, rows.Err()
}

// UpdateValue replaces a rating's value and recomputes the auction mean in
// one transaction.
func (r *RatingRepo) UpdateValue(ctx context.Context, rt *model.Rating, value int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"UPDATE ratings SET value=?, updated_at=NOW() WHERE id=?", value, rt.ID); err != nil {
		return err
	}
	if err := recomputeMean(ctx, tx, rt.AuctionID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	rt.Value = value
	return nil
}

// Delete removes a rating and recomputes the auction mean in one
// transaction; deleting the last rating reverts the mean to NULL.
func (r *RatingRepo) Delete(ctx context.Context, rt *model.Rating) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "DELETE FROM ratings WHERE id=?", rt.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRatingNotFound
	}
	if err := recomputeMean(ctx, tx, rt.AuctionID); err != nil {
		return err
	}
	return tx.Commit()
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pacomprar/auction-api/internal/model"
)

// ErrBidNotFound indicates that a bid row does not exist under the given
// auction.
var ErrBidNotFound = errors.New("bid not found")

// BidRepo manages persistence for the 'bids' table.
type BidRepo struct{ db *sql.DB }

func NewBidRepo(db *sql.DB) *BidRepo { return &BidRepo{db: db} }

const bidCols = "id, auction_id, bidder_id, amount_cents, created_at"

func scanBid(row interface{ Scan(...any) error }) (*model.Bid, error) {
	var b model.Bid
	err := row.Scan(&b.ID, &b.AuctionID, &b.BidderID, &b.AmountCents, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a bid and populates its ID and creation timestamp.
func (r *BidRepo) Create(ctx context.Context, b *model.Bid) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO bids (auction_id, bidder_id, amount_cents) VALUES (?,?,?)",
		b.AuctionID, b.BidderID, b.AmountCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at FROM bids WHERE id=?", b.ID).Scan(&b.CreatedAt)
}

// GetByID fetches one bid scoped to an auction; a bid id addressed under the
// wrong auction is a not-found, not a leak of another auction's bid.
func (r *BidRepo) GetByID(ctx context.Context, auctionID, bidID uint64) (*model.Bid, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+bidCols+" FROM bids WHERE id=? AND auction_id=?", bidID, auctionID)
	b, err := scanBid(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBidNotFound
	}
	return b, err
}

// HighestAmount returns the maximum bid amount for an auction, or nil when
// the auction has no bids yet.
func (r *BidRepo) HighestAmount(ctx context.Context, auctionID uint64) (*int64, error) {
	var max sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT MAX(amount_cents) FROM bids WHERE auction_id=?", auctionID).Scan(&max)
	if err != nil {
		return nil, err
	}
	if !max.Valid {
		return nil, nil
	}
	v := max.Int64
	return &v, nil
}

// ListByAuction returns an auction's bids ordered by amount descending, so
// the winning bid comes first.
func (r *BidRepo) ListByAuction(ctx context.Context, auctionID uint64) ([]model.Bid, error) {
	return r.queryBids(ctx,
		"SELECT "+bidCols+" FROM bids WHERE auction_id=? ORDER BY amount_cents DESC, id ASC",
		auctionID)
}

// ListByBidder returns all bids a user has placed, newest first.
func (r *BidRepo) ListByBidder(ctx context.Context, bidderID uint64) ([]model.Bid, error) {
	return r.queryBids(ctx,
		"SELECT "+bidCols+" FROM bids WHERE bidder_id=? ORDER BY created_at DESC, id DESC",
		bidderID)
}

func (r *BidRepo) queryBids(ctx context.Context, q string, args ...any) ([]model.Bid, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Bid{}
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// UpdateAmount replaces a bid's amount. The caller has already verified the
// auction is open and the actor may touch this bid; the new amount is not
// re-ranked against other bids.
func (r *BidRepo) UpdateAmount(ctx context.Context, bidID uint64, amountCents int64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE bids SET amount_cents=? WHERE id=?", amountCents, bidID)
	return err
}

// Delete removes one bid.
func (r *BidRepo) Delete(ctx context.Context, bidID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM bids WHERE id=?", bidID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBidNotFound
	}
	return nil
}

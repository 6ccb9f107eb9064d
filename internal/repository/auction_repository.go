// Package repository contains data access logic for the auction domain. This
// file covers the 'auctions' table, including the lazy open->closed
// transition: stored state is refreshed from the closing deadline on every
// access path so a stale "open" row can never accept a late bid.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/pacomprar/auction-api/internal/auction"
	"github.com/pacomprar/auction-api/internal/model"
)

// ErrAuctionNotFound indicates that an auction row does not exist.
var ErrAuctionNotFound = errors.New("auction not found")

// AuctionFilters narrows List results. Zero/nil fields are ignored. Price
// bounds apply to the current price of an auction: its highest bid, or the
// starting price while no bids exist.
type AuctionFilters struct {
	Search        string  // matches title or description, case-insensitive
	CategoryID    *uint64 // only auctions in this category
	PriceMinCents *int64  // current price >= this
	PriceMaxCents *int64  // current price <= this
}

// AuctionRepo manages persistence for auctions.
type AuctionRepo struct{ db *sql.DB }

func NewAuctionRepo(db *sql.DB) *AuctionRepo { return &AuctionRepo{db: db} }

const auctionCols = `id, owner_id, category_id, title, description, brand, image_url,
	starting_price_cents, stock, rating, state, closes_at, created_at, updated_at`

// currentPriceExpr computes the live price of auction alias a.
const currentPriceExpr = `COALESCE((SELECT MAX(b.amount_cents) FROM bids b WHERE b.auction_id = a.id), a.starting_price_cents)`

func scanAuction(row interface{ Scan(...any) error }) (*model.Auction, error) {
	var (
		a        model.Auction
		category sql.NullInt64
		rating   sql.NullFloat64
	)
	err := row.Scan(&a.ID, &a.OwnerID, &category, &a.Title, &a.Description, &a.Brand,
		&a.ImageURL, &a.StartingPriceCents, &a.Stock, &rating, &a.State,
		&a.ClosesAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if category.Valid {
		v := uint64(category.Int64)
		a.CategoryID = &v
	}
	if rating.Valid {
		v := rating.Float64
		a.Rating = &v
	}
	return &a, nil
}

// Create inserts a new auction and populates the generated ID and DB default
// fields back onto the struct.
func (r *AuctionRepo) Create(ctx context.Context, a *model.Auction) error {
	var category any
	if a.CategoryID != nil {
		category = *a.CategoryID
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO auctions (owner_id, category_id, title, description, brand, image_url,
		 starting_price_cents, stock, state, closes_at) VALUES (?,?,?,?,?,?,?,?,?,?)`,
		a.OwnerID, category, a.Title, a.Description, a.Brand, a.ImageURL,
		a.StartingPriceCents, a.Stock, model.StateOpen, a.ClosesAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	// re-read to pick up created_at/updated_at defaults
	fresh, err := r.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	*a = *fresh
	return nil
}

// GetByID retrieves an auction by its ID without touching its state. Most
// callers want Fetch, which also applies the lazy close.
func (r *AuctionRepo) GetByID(ctx context.Context, id uint64) (*model.Auction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+auctionCols+" FROM auctions WHERE id = ?", id)
	a, err := scanAuction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAuctionNotFound
	}
	return a, err
}

// Fetch loads an auction and applies the lazy lifecycle transition: when the
// stored state is open but the deadline has passed, the row is flipped to
// closed before the auction is returned. The reverse direction never occurs.
func (r *AuctionRepo) Fetch(ctx context.Context, id uint64, now time.Time) (*model.Auction, error) {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.CloseIfDue(ctx, a, now); err != nil {
		return nil, err
	}
	return a, nil
}

// CloseIfDue persists the open->closed transition for one auction when its
// deadline has passed. The UPDATE is gated on state='open' so the write is
// idempotent and cannot reopen a closed auction.
func (r *AuctionRepo) CloseIfDue(ctx context.Context, a *model.Auction, now time.Time) error {
	if a.State != model.StateOpen || auction.State(a.ClosesAt, now) == model.StateOpen {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE auctions SET state=?, updated_at=NOW() WHERE id=? AND state=?",
		model.StateClosed, a.ID, model.StateOpen)
	if err != nil {
		return err
	}
	a.State = model.StateClosed
	return nil
}

// CloseDue flips every overdue open auction to closed in one statement. List
// endpoints call this first so results never report a stale open state.
func (r *AuctionRepo) CloseDue(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE auctions SET state=?, updated_at=NOW() WHERE state=? AND closes_at <= ?",
		model.StateClosed, model.StateOpen, now)
	return err
}

// List returns auctions matching the filters, ordered by id.
func (r *AuctionRepo) List(ctx context.Context, f AuctionFilters) ([]model.Auction, error) {
	var (
		conds []string
		args  []any
	)
	if s := strings.TrimSpace(f.Search); s != "" {
		conds = append(conds, "(a.title LIKE ? OR a.description LIKE ?)")
		pat := "%" + s + "%"
		args = append(args, pat, pat)
	}
	if f.CategoryID != nil {
		conds = append(conds, "a.category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if f.PriceMinCents != nil {
		conds = append(conds, currentPriceExpr+" >= ?")
		args = append(args, *f.PriceMinCents)
	}
	if f.PriceMaxCents != nil {
		conds = append(conds, currentPriceExpr+" <= ?")
		args = append(args, *f.PriceMaxCents)
	}
	q := "SELECT " + auctionColsPrefixed + " FROM auctions a"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY a.id ASC"
	return r.queryAuctions(ctx, q, args...)
}

// ListByOwner returns all auctions created by one user, ordered by id.
func (r *AuctionRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Auction, error) {
	q := "SELECT " + auctionColsPrefixed + " FROM auctions a WHERE a.owner_id = ? ORDER BY a.id ASC"
	return r.queryAuctions(ctx, q, ownerID)
}

const auctionColsPrefixed = `a.id, a.owner_id, a.category_id, a.title, a.description, a.brand,
	a.image_url, a.starting_price_cents, a.stock, a.rating, a.state, a.closes_at, a.created_at, a.updated_at`

func (r *AuctionRepo) queryAuctions(ctx context.Context, q string, args ...any) ([]model.Auction, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Auction{}
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// Update overwrites the mutable columns of an auction. State is not written
// here; lifecycle transitions go through CloseIfDue/CloseDue only.
func (r *AuctionRepo) Update(ctx context.Context, a *model.Auction) error {
	var category any
	if a.CategoryID != nil {
		category = *a.CategoryID
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE auctions SET category_id=?, title=?, description=?, brand=?, image_url=?,
		 starting_price_cents=?, stock=?, closes_at=?, updated_at=NOW() WHERE id=?`,
		category, a.Title, a.Description, a.Brand, a.ImageURL,
		a.StartingPriceCents, a.Stock, a.ClosesAt, a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, a.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an auction and cascades to its bids, ratings and comments
// inside one transaction, honoring the exclusive-ownership contract.
func (r *AuctionRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{
		"DELETE FROM bids WHERE auction_id=?",
		"DELETE FROM ratings WHERE auction_id=?",
		"DELETE FROM comments WHERE auction_id=?",
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM auctions WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAuctionNotFound
	}
	return tx.Commit()
}

package model

import "time"

// Auction lifecycle states as stored in auctions.state. An auction is open
// until its closing deadline passes; the transition is one-way.
const (
    StateOpen   = "open"
    StateClosed = "closed"
)

// Auction represents a listing a user has put up for bidding. Monetary
// amounts are stored in cents to avoid floating point drift. Rating is a
// derived value: the arithmetic mean of all ratings for the auction, NULL
// while no ratings exist.
//
// Fields:
//  ID                 – primary key identifier.
//  OwnerID            – user who created the auction.
//  CategoryID         – optional category the auction belongs to.
//  Title              – short listing title.
//  Description        – full listing text.
//  Brand              – product brand.
//  ImageURL           – URL of the listing image.
//  StartingPriceCents – minimum first bid, exclusive (> 0).
//  Stock              – units offered (>= 1).
//  Rating             – mean rating over all ratings, nil when unrated.
//  State              – StateOpen or StateClosed.
//  ClosesAt           – closing deadline; at least 15 days after creation.
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last update timestamp.
type Auction struct {
    ID                 uint64    // auctions.id
    OwnerID            uint64    // auctions.owner_id
    CategoryID         *uint64   // auctions.category_id (nullable)
    Title              string    // auctions.title
    Description        string    // auctions.description
    Brand              string    // auctions.brand
    ImageURL           string    // auctions.image_url
    StartingPriceCents int64     // auctions.starting_price_cents
    Stock              uint32    // auctions.stock
    Rating             *float64  // auctions.rating (nullable, derived)
    State              string    // auctions.state
    ClosesAt           time.Time // auctions.closes_at
    CreatedAt          time.Time // auctions.created_at
    UpdatedAt          time.Time // auctions.updated_at
}

// Category is a label grouping auctions. A category cannot be deleted while
// an auction still references it.
type Category struct {
    ID   uint64 // categories.id
    Name string // categories.name
}

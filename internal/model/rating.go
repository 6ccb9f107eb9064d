package model

import "time"

// Rating is a user's score for an auction, an integer between 1 and 5. The
// (AuctionID, RaterID) pair is unique: a user rates an auction at most once
// and updates replace the previous value. The auction's mean rating is
// recomputed whenever a rating is created, changed or removed.
type Rating struct {
    ID        uint64    // ratings.id
    AuctionID uint64    // ratings.auction_id
    RaterID   uint64    // ratings.rater_id
    Value     int       // ratings.value (1..5)
    CreatedAt time.Time // ratings.created_at
    UpdatedAt time.Time // ratings.updated_at
}

// Comment is a free-text note a user attaches to an auction. No invariants
// beyond authorship-based mutation rights.
type Comment struct {
    ID        uint64    // comments.id
    AuctionID uint64    // comments.auction_id
    AuthorID  uint64    // comments.author_id
    Title     string    // comments.title
    Body      string    // comments.body
    CreatedAt time.Time // comments.created_at
    UpdatedAt time.Time // comments.updated_at
}

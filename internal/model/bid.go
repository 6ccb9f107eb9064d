package model

import "time"

// Bid records an offer made by a user on an auction. A new bid must strictly
// exceed the highest prior bid for the auction, or the starting price when no
// prior bid exists.
//
// Fields:
//  ID          – primary key identifier.
//  AuctionID   – auction the bid targets.
//  BidderID    – user who placed the bid.
//  AmountCents – offered amount in cents.
//  CreatedAt   – creation timestamp.
type Bid struct {
    ID          uint64    // bids.id
    AuctionID   uint64    // bids.auction_id
    BidderID    uint64    // bids.bidder_id
    AmountCents int64     // bids.amount_cents
    CreatedAt   time.Time // bids.created_at
}

// Package queue defines message payloads exchanged over the message broker.
package queue

// BidPlacedEvent is published whenever a bid is accepted. It carries enough
// context for downstream consumers to log or notify without querying the
// primary database.
type BidPlacedEvent struct {
	EventID       string `json:"event_id"`
	BidID         uint64 `json:"bid_id"`
	AuctionID     uint64 `json:"auction_id"`
	AuctionTitle  string `json:"auction_title"`
	OwnerID       uint64 `json:"owner_id"`
	BidderID      uint64 `json:"bidder_id"`
	AmountCents   int64  `json:"amount_cents"`
	PreviousCents *int64 `json:"previous_cents,omitempty"`
	PlacedAt      string `json:"placed_at"`
}

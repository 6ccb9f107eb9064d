package auction

import "errors"

// Business rule errors. Handlers translate these into HTTP status codes.
var (
	ErrAuctionClosed    = errors.New("auction is closed")
	ErrBidTooLow        = errors.New("bid amount too low")
	ErrInvalidBid       = errors.New("invalid bid")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrCloseDateTooSoon = errors.New("closing date must be at least 15 days ahead")
)

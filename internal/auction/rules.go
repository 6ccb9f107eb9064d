// Package auction holds the business rules of the bidding domain: the
// lifecycle of an auction, the acceptance rule for new bids and the
// aggregation of ratings. All functions here are pure; persistence of their
// outcomes is the repository layer's job.
package auction

import (
	"fmt"
	"time"

	"github.com/pacomprar/auction-api/internal/model"
)

// MinCloseLead is the minimum distance between an auction's creation time
// and its closing deadline.
const MinCloseLead = 15 * 24 * time.Hour

// State evaluates the lifecycle state of an auction given its closing
// deadline and the current time. An auction is closed once now reaches the
// deadline; the transition never reverses.
func State(closesAt, now time.Time) string {
	if !now.Before(closesAt) {
		return model.StateClosed
	}
	return model.StateOpen
}

// ValidateCloseDate checks that a closing deadline lies at least MinCloseLead
// after now.
func ValidateCloseDate(closesAt, now time.Time) error {
	if !closesAt.After(now) {
		return fmt.Errorf("%w: closing date is not in the future", ErrCloseDateTooSoon)
	}
	if closesAt.Before(now.Add(MinCloseLead)) {
		return ErrCloseDateTooSoon
	}
	return nil
}

// ValidateBid applies the bid acceptance rule. state is the auction's
// lifecycle state after lazy evaluation, highest is the current highest bid
// amount for the auction (nil when no bid exists) and amount is the proposed
// bid. A bid is accepted only on an open auction and only when it strictly
// exceeds max(starting price, highest existing bid); ties are rejected.
func ValidateBid(state string, startingPriceCents int64, highest *int64, amountCents int64) error {
	if state != model.StateOpen {
		return ErrAuctionClosed
	}
	if amountCents <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidBid)
	}
	floor := startingPriceCents
	if highest != nil && *highest > floor {
		floor = *highest
	}
	if amountCents <= floor {
		return fmt.Errorf("%w: must exceed %d", ErrBidTooLow, floor)
	}
	return nil
}

// ValidateRatingValue checks that a rating value lies in [1,5].
func ValidateRatingValue(v int) error {
	if v < 1 || v > 5 {
		return ErrInvalidRating
	}
	return nil
}

// MeanRating returns the arithmetic mean of the given rating values, or nil
// when the set is empty. The repositories recompute the same value in SQL;
// this form exists for validation and tests.
func MeanRating(values []int) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	m := float64(sum) / float64(len(values))
	return &m
}

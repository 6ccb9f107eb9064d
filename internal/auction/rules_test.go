package auction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pacomprar/auction-api/internal/model"
)

func TestState(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		closesAt time.Time
		want     string
	}{
		{"future_deadline_open", now.Add(24 * time.Hour), model.StateOpen},
		{"past_deadline_closed", now.Add(-time.Second), model.StateClosed},
		{"exact_deadline_closed", now, model.StateClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, State(tt.closesAt, now))
		})
	}
}

func TestStateNeverReopens(t *testing.T) {
	// Once the deadline has passed, every later evaluation stays closed.
	deadline := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, after := range []time.Duration{0, time.Minute, 24 * time.Hour, 365 * 24 * time.Hour} {
		require.Equal(t, model.StateClosed, State(deadline, deadline.Add(after)))
	}
}

func TestValidateCloseDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		closesAt time.Time
		wantErr  error
	}{
		{"exactly_15_days_ok", now.Add(MinCloseLead), nil},
		{"more_than_15_days_ok", now.Add(MinCloseLead + time.Hour), nil},
		{"less_than_15_days_rejected", now.Add(MinCloseLead - time.Minute), ErrCloseDateTooSoon},
		{"in_the_past_rejected", now.Add(-time.Hour), ErrCloseDateTooSoon},
		{"now_rejected", now, ErrCloseDateTooSoon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCloseDate(tt.closesAt, now)
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateBid(t *testing.T) {
	high := func(v int64) *int64 { return &v }

	tests := []struct {
		name     string
		state    string
		starting int64
		highest  *int64
		amount   int64
		wantErr  error
	}{
		{"closed_auction_rejected", model.StateClosed, 500, nil, 1000, ErrAuctionClosed},
		{"no_bids_equal_to_starting_rejected", model.StateOpen, 500, nil, 500, ErrBidTooLow},
		{"no_bids_above_starting_accepted", model.StateOpen, 500, nil, 501, nil},
		{"tie_with_highest_rejected", model.StateOpen, 500, high(501), 501, ErrBidTooLow},
		{"above_highest_accepted", model.StateOpen, 500, high(501), 600, nil},
		{"below_highest_rejected", model.StateOpen, 500, high(800), 700, ErrBidTooLow},
		{"zero_amount_rejected", model.StateOpen, 500, nil, 0, ErrInvalidBid},
		{"negative_amount_rejected", model.StateOpen, 500, nil, -5, ErrInvalidBid},
		// A stale highest below the starting price must not lower the floor.
		{"highest_below_starting_keeps_floor", model.StateOpen, 500, high(100), 400, ErrBidTooLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBid(tt.state, tt.starting, tt.highest, tt.amount)
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

// The ladder from the product scenario: starting price 500, first bid must be
// strictly greater, then each bid must beat the previous one.
func TestValidateBidLadder(t *testing.T) {
	var highest *int64

	require.ErrorIs(t, ValidateBid(model.StateOpen, 500, highest, 500), ErrBidTooLow)
	require.NoError(t, ValidateBid(model.StateOpen, 500, highest, 501))

	first := int64(501)
	highest = &first
	require.ErrorIs(t, ValidateBid(model.StateOpen, 500, highest, 501), ErrBidTooLow)
	require.NoError(t, ValidateBid(model.StateOpen, 500, highest, 600))
}

func TestValidateRatingValue(t *testing.T) {
	for v := 1; v <= 5; v++ {
		require.NoError(t, ValidateRatingValue(v))
	}
	require.ErrorIs(t, ValidateRatingValue(0), ErrInvalidRating)
	require.ErrorIs(t, ValidateRatingValue(6), ErrInvalidRating)
	require.ErrorIs(t, ValidateRatingValue(-1), ErrInvalidRating)
}

func TestMeanRating(t *testing.T) {
	require.Nil(t, MeanRating(nil))
	require.Nil(t, MeanRating([]int{}))

	m := MeanRating([]int{4})
	require.NotNil(t, m)
	require.Equal(t, 4.0, *m)

	m = MeanRating([]int{2, 3, 4})
	require.NotNil(t, m)
	require.InDelta(t, 3.0, *m, 1e-9)

	m = MeanRating([]int{1, 2})
	require.NotNil(t, m)
	require.InDelta(t, 1.5, *m, 1e-9)
}

// Updating a rating replaces the old value in the mean; deleting the last
// rating reverts the auction to the unrated state.
func TestMeanRatingLifecycle(t *testing.T) {
	m := MeanRating([]int{4})
	require.Equal(t, 4.0, *m)

	m = MeanRating([]int{2}) // value updated 4 -> 2
	require.Equal(t, 2.0, *m)

	require.Nil(t, MeanRating([]int{})) // rating deleted
}

package permission

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pacomprar/auction-api/internal/model"
)

func TestOwnerOrAdmin(t *testing.T) {
	tests := []struct {
		name    string
		actor   Actor
		ownerID uint64
		want    bool
	}{
		{"owner_allowed", Actor{ID: 7}, 7, true},
		{"admin_allowed", Actor{ID: 1, Admin: true}, 7, true},
		{"other_user_denied", Actor{ID: 2}, 7, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, OwnerOrAdmin(tt.actor, tt.ownerID))
		})
	}
}

func TestAdminOnly(t *testing.T) {
	require.True(t, AdminOnly(Actor{ID: 1, Admin: true}))
	require.False(t, AdminOnly(Actor{ID: 1}))
}

func TestResourcePredicates(t *testing.T) {
	owner := Actor{ID: 10}
	stranger := Actor{ID: 11}
	admin := Actor{ID: 1, Admin: true}

	auc := &model.Auction{ID: 1, OwnerID: 10}
	require.True(t, CanModifyAuction(owner, auc))
	require.True(t, CanModifyAuction(admin, auc))
	require.False(t, CanModifyAuction(stranger, auc))

	bid := &model.Bid{ID: 2, AuctionID: 1, BidderID: 10}
	require.True(t, CanModifyBid(owner, bid))
	require.True(t, CanModifyBid(admin, bid))
	require.False(t, CanModifyBid(stranger, bid))

	rating := &model.Rating{ID: 3, AuctionID: 1, RaterID: 10}
	require.True(t, CanModifyRating(owner, rating))
	require.True(t, CanModifyRating(admin, rating))
	require.False(t, CanModifyRating(stranger, rating))

	comment := &model.Comment{ID: 4, AuctionID: 1, AuthorID: 10}
	require.True(t, CanModifyComment(owner, comment))
	require.True(t, CanModifyComment(admin, comment))
	require.False(t, CanModifyComment(stranger, comment))
}

// The auction owner is not implicitly allowed to touch bids placed by other
// users on their auction.
func TestAuctionOwnerCannotModifyOthersBid(t *testing.T) {
	auctionOwner := Actor{ID: 10}
	bid := &model.Bid{ID: 2, AuctionID: 1, BidderID: 20}
	require.False(t, CanModifyBid(auctionOwner, bid))
}

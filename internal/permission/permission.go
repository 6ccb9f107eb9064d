// Package permission implements the per-resource authorization checks
// consulted before every mutating operation. Read access is open to anyone;
// these predicates only gate writes. They are pure functions of the acting
// user and the target resource so handlers can call them before touching the
// database.
package permission

import "github.com/pacomprar/auction-api/internal/model"

// Actor identifies the authenticated user making a request, as extracted
// from the access token by the JWT middleware.
type Actor struct {
	ID    uint64 // users.id from the token subject
	Admin bool   // users.is_staff from the token admin claim
}

// OwnerOrAdmin reports whether the actor may mutate a resource owned by
// ownerID: they must be the owner or an administrator.
func OwnerOrAdmin(a Actor, ownerID uint64) bool {
	return a.Admin || a.ID == ownerID
}

// AdminOnly reports whether the actor may perform an admin-restricted write
// (the write half of the admin-or-read-only policy).
func AdminOnly(a Actor) bool {
	return a.Admin
}

// CanModifyAuction gates updates and deletes of an auction.
func CanModifyAuction(a Actor, auc *model.Auction) bool {
	return OwnerOrAdmin(a, auc.OwnerID)
}

// CanModifyBid gates updates and deletes of a bid. Only the bidder or an
// admin may touch it; the auction owner has no say over other users' bids.
func CanModifyBid(a Actor, b *model.Bid) bool {
	return OwnerOrAdmin(a, b.BidderID)
}

// CanModifyRating gates updates and deletes of a rating.
func CanModifyRating(a Actor, r *model.Rating) bool {
	return OwnerOrAdmin(a, r.RaterID)
}

// CanModifyComment gates updates and deletes of a comment.
func CanModifyComment(a Actor, cm *model.Comment) bool {
	return OwnerOrAdmin(a, cm.AuthorID)
}

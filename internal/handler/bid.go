package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pacomprar/auction-api/internal/auction"
	"github.com/pacomprar/auction-api/internal/model"
	"github.com/pacomprar/auction-api/internal/permission"
	"github.com/pacomprar/auction-api/internal/queue"
	"github.com/pacomprar/auction-api/internal/repository"
	queue_publisher "github.com/pacomprar/auction-api/internal/service"
	"github.com/pacomprar/auction-api/internal/utils"
)

// BidHandler serves bids nested under an auction. Placing, editing and
// withdrawing a bid all require the auction to still be open.
type BidHandler struct {
	Auctions *repository.AuctionRepo
	Bids     *repository.BidRepo

	// PublishEvents enables best-effort bid.placed notifications.
	PublishEvents bool
}

func NewBidHandler(a *repository.AuctionRepo, b *repository.BidRepo, publish bool) *BidHandler {
	return &BidHandler{Auctions: a, Bids: b, PublishEvents: publish}
}

type bidReq struct {
	AmountCents int64 `json:"amount_cents"`
}

type bidPart struct {
	ID          uint64    `json:"id"`
	AuctionID   uint64    `json:"auction_id"`
	BidderID    uint64    `json:"bidder_id"`
	AmountCents int64     `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

func toBidPart(b model.Bid) bidPart {
	return bidPart{
		ID:          b.ID,
		AuctionID:   b.AuctionID,
		BidderID:    b.BidderID,
		AmountCents: b.AmountCents,
		CreatedAt:   b.CreatedAt,
	}
}

// loadAuction fetches the parent auction with the lazy close applied.
func (h *BidHandler) loadAuction(ctx context.Context, c echo.Context) (*model.Auction, error) {
	auctionID, err := pathID(c, "id")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid auction id")
	}
	a, err := h.Auctions.Fetch(ctx, auctionID, time.Now().UTC())
	if err != nil {
		if err == repository.ErrAuctionNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, "auction not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "query failed")
	}
	return a, nil
}

func (h *BidHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.loadAuction(ctx, c)
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}
	bids, err := h.Bids.ListByAuction(ctx, a.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]bidPart, 0, len(bids))
	for i := range bids {
		out = append(out, toBidPart(bids[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BidHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.loadAuction(ctx, c)
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}
	bidID, err := pathID(c, "bidId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bid id"})
	}
	b, err := h.Bids.GetByID(ctx, a.ID, bidID)
	if err != nil {
		if err == repository.ErrBidNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bid not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toBidPart(*b))
}

// Create places a bid. The amount must strictly exceed the current highest
// bid, or the starting price when no bids exist; ties lose. A closed auction
// rejects every bid.
func (h *BidHandler) Create(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bidReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.loadAuction(ctx, c)
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}

	highest, err := h.Bids.HighestAmount(ctx, a.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := auction.ValidateBid(a.State, a.StartingPriceCents, highest, req.AmountCents); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	b := model.Bid{AuctionID: a.ID, BidderID: act.ID, AmountCents: req.AmountCents}
	if err := h.Bids.Create(ctx, &b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}

	if h.PublishEvents {
		ev := queue.BidPlacedEvent{
			EventID:       uuid.NewString(),
			BidID:         b.ID,
			AuctionID:     a.ID,
			AuctionTitle:  a.Title,
			OwnerID:       a.OwnerID,
			BidderID:      act.ID,
			AmountCents:   b.AmountCents,
			PreviousCents: highest,
			PlacedAt:      b.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := queue_publisher.PublishBidPlaced(ctx, ev); err != nil {
			utils.Warn("bid event publish failed", map[string]any{"bid_id": b.ID, "error": err.Error()})
		}
	}
	return c.JSON(http.StatusCreated, toBidPart(b))
}

// Update edits a bid's amount. Requires an open auction and the bid's owner
// or an admin. The new amount is not re-validated against other bids.
func (h *BidHandler) Update(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bidReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.AmountCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount_cents must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.loadAuction(ctx, c)
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}
	if a.State != model.StateOpen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": auction.ErrAuctionClosed.Error()})
	}
	bidID, err := pathID(c, "bidId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bid id"})
	}
	b, err := h.Bids.GetByID(ctx, a.ID, bidID)
	if err != nil {
		if err == repository.ErrBidNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bid not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !permission.CanModifyBid(act, b) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Bids.UpdateAmount(ctx, b.ID, req.AmountCents); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	b.AmountCents = req.AmountCents
	return c.JSON(http.StatusOK, toBidPart(*b))
}

// Delete withdraws a bid. Same gate as Update: open auction, owner or admin.
func (h *BidHandler) Delete(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.loadAuction(ctx, c)
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}
	if a.State != model.StateOpen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": auction.ErrAuctionClosed.Error()})
	}
	bidID, err := pathID(c, "bidId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bid id"})
	}
	b, err := h.Bids.GetByID(ctx, a.ID, bidID)
	if err != nil {
		if err == repository.ErrBidNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bid not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !permission.CanModifyBid(act, b) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Bids.Delete(ctx, b.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

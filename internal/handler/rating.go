package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pacomprar/auction-api/internal/auction"
	"github.com/pacomprar/auction-api/internal/model"
	"github.com/pacomprar/auction-api/internal/permission"
	"github.com/pacomprar/auction-api/internal/repository"
)

// RatingHandler serves ratings nested under an auction. A user may hold at
// most one rating per auction; every change recomputes the auction's mean.
type RatingHandler struct {
	Auctions *repository.AuctionRepo
	Ratings  *repository.RatingRepo
}

func NewRatingHandler(a *repository.AuctionRepo, rt *repository.RatingRepo) *RatingHandler {
	return &RatingHandler{Auctions: a, Ratings: rt}
}

type ratingReq struct {
	Value int `json:"value"`
}

type ratingPart struct {
	ID        uint64    `json:"id"`
	AuctionID uint64    `json:"auction_id"`
	RaterID   uint64    `json:"rater_id"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toRatingPart(rt model.Rating) ratingPart {
	return ratingPart{
		ID:        rt.ID,
		AuctionID: rt.AuctionID,
		RaterID:   rt.RaterID,
		Value:     rt.Value,
		CreatedAt: rt.CreatedAt,
		UpdatedAt: rt.UpdatedAt,
	}
}

func (h *RatingHandler) loadAuction(ctx context.Context, c echo.Context) (*model.Auction, error) {
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

func (h *RatingHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.loadAuction(ctx, c)
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}
	ratings, err := h.Ratings.ListByAuction(ctx, a.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]ratingPart, 0, len(ratings))
	for i := range ratings {
		out = append(out, toRatingPart(ratings[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RatingHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.loadAuction(ctx, c)
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}
	ratingID, err := pathID(c, "ratingId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rating id"})
	}
	rt, err := h.Ratings.GetByID(ctx, a.ID, ratingID)
	if err != nil {
		if err == repository.ErrRatingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "rating not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toRatingPart(*rt))
}

// Mine returns the caller's own rating on an auction, letting clients decide
// between offering a create or an edit form.
func (h *RatingHandler) Mine(c echo.Context) error {
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
	rt, err := h.Ratings.GetByAuctionAndRater(ctx, a.ID, act.ID)
	if err != nil {
		if err == repository.ErrRatingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "rating not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toRatingPart(*rt))
}

// Create records the caller's rating for an auction. A second rating by the
// same user is rejected; they should update the existing one instead.
func (h *RatingHandler) Create(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req ratingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := auction.ValidateRatingValue(req.Value); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.loadAuction(ctx, c)
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}
	rt := model.Rating{AuctionID: a.ID, RaterID: act.ID, Value: req.Value}
	if err := h.Ratings.Create(ctx, &rt); err != nil {
		if err == repository.ErrDuplicateRating {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user already rated this auction"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, toRatingPart(rt))
}

// Update changes a rating's value. Only the rater or an admin may edit.
func (h *RatingHandler) Update(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req ratingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := auction.ValidateRatingValue(req.Value); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.loadAuction(ctx, c)
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}
	ratingID, err := pathID(c, "ratingId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rating id"})
	}
	rt, err := h.Ratings.GetByID(ctx, a.ID, ratingID)
	if err != nil {
		if err == repository.ErrRatingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "rating not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !permission.CanModifyRating(act, rt) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Ratings.UpdateValue(ctx, rt, req.Value); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toRatingPart(*rt))
}

// Delete removes a rating and recomputes the auction mean; removing the last
// rating clears the mean entirely.
func (h *RatingHandler) Delete(c echo.Context) error {
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
	ratingID, err := pathID(c, "ratingId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rating id"})
	}
	rt, err := h.Ratings.GetByID(ctx, a.ID, ratingID)
	if err != nil {
		if err == repository.ErrRatingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "rating not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !permission.CanModifyRating(act, rt) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Ratings.Delete(ctx, rt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

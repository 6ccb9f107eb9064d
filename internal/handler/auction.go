package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pacomprar/auction-api/internal/auction"
	"github.com/pacomprar/auction-api/internal/model"
	"github.com/pacomprar/auction-api/internal/permission"
	"github.com/pacomprar/auction-api/internal/repository"
)

// AuctionHandler serves the auction listings. Reads are public; creating and
// modifying require authentication, deletion and edits only by the owner or
// an admin.
type AuctionHandler struct {
	Auctions   *repository.AuctionRepo
	Bids       *repository.BidRepo
	Categories *repository.CategoryRepo
}

func NewAuctionHandler(a *repository.AuctionRepo, b *repository.BidRepo, cat *repository.CategoryRepo) *AuctionHandler {
	return &AuctionHandler{Auctions: a, Bids: b, Categories: cat}
}

type createAuctionReq struct {
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Brand              string  `json:"brand"`
	ImageURL           string  `json:"image_url"`
	CategoryID         *uint64 `json:"category_id"`
	StartingPriceCents int64   `json:"starting_price_cents"`
	Stock              uint32  `json:"stock"`
	ClosesAt           string  `json:"closes_at"` // RFC 3339
}

type updateAuctionReq struct {
	Title              *string `json:"title"`
	Description        *string `json:"description"`
	Brand              *string `json:"brand"`
	ImageURL           *string `json:"image_url"`
	CategoryID         *uint64 `json:"category_id"`
	StartingPriceCents *int64  `json:"starting_price_cents"`
	Stock              *uint32 `json:"stock"`
	ClosesAt           *string `json:"closes_at"`
}

type auctionPart struct {
	ID                 uint64    `json:"id"`
	OwnerID            uint64    `json:"owner_id"`
	CategoryID         *uint64   `json:"category_id,omitempty"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Brand              string    `json:"brand,omitempty"`
	ImageURL           string    `json:"image_url,omitempty"`
	StartingPriceCents int64     `json:"starting_price_cents"`
	CurrentPriceCents  *int64    `json:"current_price_cents,omitempty"`
	Stock              uint32    `json:"stock"`
	Rating             *float64  `json:"rating"`
	State              string    `json:"state"`
	ClosesAt           time.Time `json:"closes_at"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toAuctionPart(a model.Auction) auctionPart {
	return auctionPart{
		ID:                 a.ID,
		OwnerID:            a.OwnerID,
		CategoryID:         a.CategoryID,
		Title:              a.Title,
		Description:        a.Description,
		Brand:              a.Brand,
		ImageURL:           a.ImageURL,
		StartingPriceCents: a.StartingPriceCents,
		Stock:              a.Stock,
		Rating:             a.Rating,
		State:              a.State,
		ClosesAt:           a.ClosesAt,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// parseFilters builds repository filters from query params. A search term
// shorter than three characters is rejected rather than silently matching
// almost everything.
func parseFilters(c echo.Context) (repository.AuctionFilters, error) {
	var f repository.AuctionFilters
	if s := strings.TrimSpace(c.QueryParam("search")); s != "" {
		if len([]rune(s)) < 3 {
			return f, echo.NewHTTPError(http.StatusBadRequest, "search term must be at least 3 characters")
		}
		f.Search = s
	}
	if v := c.QueryParam("category"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid category filter")
		}
		f.CategoryID = &id
	}
	if v := c.QueryParam("price_min_cents"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return f, echo.NewHTTPError(http.StatusBadRequest, "price_min_cents must be greater than 0")
		}
		f.PriceMinCents = &n
	}
	if v := c.QueryParam("price_max_cents"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return f, echo.NewHTTPError(http.StatusBadRequest, "price_max_cents must be greater than 0")
		}
		f.PriceMaxCents = &n
	}
	if f.PriceMinCents != nil && f.PriceMaxCents != nil && *f.PriceMinCents > *f.PriceMaxCents {
		return f, echo.NewHTTPError(http.StatusBadRequest, "price_min_cents exceeds price_max_cents")
	}
	return f, nil
}

func (h *AuctionHandler) List(c echo.Context) error {
	filters, err := parseFilters(c)
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	if err := h.Auctions.CloseDue(ctx, now); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	list, err := h.Auctions.List(ctx, filters)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]auctionPart, 0, len(list))
	for i := range list {
		out = append(out, toAuctionPart(list[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuctionHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid auction id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Auctions.Fetch(ctx, id, time.Now().UTC())
	if err != nil {
		if err == repository.ErrAuctionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "auction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	part := toAuctionPart(*a)
	price := a.StartingPriceCents
	if highest, err := h.Bids.HighestAmount(ctx, a.ID); err == nil && highest != nil {
		price = *highest
	}
	part.CurrentPriceCents = &price
	return c.JSON(http.StatusOK, part)
}

func (h *AuctionHandler) Create(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createAuctionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" || req.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and description required"})
	}
	if req.StartingPriceCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starting_price_cents must be positive"})
	}
	if req.Stock < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stock must be at least 1"})
	}
	closesAt, err := time.Parse(time.RFC3339, req.ClosesAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid closes_at, want RFC 3339"})
	}
	now := time.Now().UTC()
	if err := auction.ValidateCloseDate(closesAt, now); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if req.CategoryID != nil {
		if _, err := h.Categories.GetByID(ctx, *req.CategoryID); err != nil {
			if err == repository.ErrCategoryNotFound {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
	}

	a := model.Auction{
		OwnerID:            act.ID,
		CategoryID:         req.CategoryID,
		Title:              req.Title,
		Description:        req.Description,
		Brand:              strings.TrimSpace(req.Brand),
		ImageURL:           strings.TrimSpace(req.ImageURL),
		StartingPriceCents: req.StartingPriceCents,
		Stock:              req.Stock,
		ClosesAt:           closesAt.UTC(),
	}
	if err := h.Auctions.Create(ctx, &a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, toAuctionPart(a))
}

// Update applies a partial edit. Only the owner or an admin may edit, and a
// moved deadline must still honor the minimum lead time. The stored state is
// never touched here, so a closed auction stays closed.
func (h *AuctionHandler) Update(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid auction id"})
	}
	var req updateAuctionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	a, err := h.Auctions.Fetch(ctx, id, now)
	if err != nil {
		if err == repository.ErrAuctionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "auction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !permission.CanModifyAuction(act, a) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		if t == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "title cannot be empty"})
		}
		a.Title = t
	}
	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		if d == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "description cannot be empty"})
		}
		a.Description = d
	}
	if req.Brand != nil {
		a.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.ImageURL != nil {
		a.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.CategoryID != nil {
		if _, err := h.Categories.GetByID(ctx, *req.CategoryID); err != nil {
			if err == repository.ErrCategoryNotFound {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		a.CategoryID = req.CategoryID
	}
	if req.StartingPriceCents != nil {
		if *req.StartingPriceCents <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "starting_price_cents must be positive"})
		}
		a.StartingPriceCents = *req.StartingPriceCents
	}
	if req.Stock != nil {
		if *req.Stock < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "stock must be at least 1"})
		}
		a.Stock = *req.Stock
	}
	if req.ClosesAt != nil {
		closesAt, err := time.Parse(time.RFC3339, *req.ClosesAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid closes_at, want RFC 3339"})
		}
		if err := auction.ValidateCloseDate(closesAt, now); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		a.ClosesAt = closesAt.UTC()
	}

	if err := h.Auctions.Update(ctx, a); err != nil {
		if err == repository.ErrAuctionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "auction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toAuctionPart(*a))
}

func (h *AuctionHandler) Delete(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid auction id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Auctions.Fetch(ctx, id, time.Now().UTC())
	if err != nil {
		if err == repository.ErrAuctionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "auction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !permission.CanModifyAuction(act, a) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Auctions.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

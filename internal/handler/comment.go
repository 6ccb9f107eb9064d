package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pacomprar/auction-api/internal/model"
	"github.com/pacomprar/auction-api/internal/permission"
	"github.com/pacomprar/auction-api/internal/repository"
)

// CommentHandler serves comments nested under an auction.
type CommentHandler struct {
	Auctions *repository.AuctionRepo
	Comments *repository.CommentRepo
}

func NewCommentHandler(a *repository.AuctionRepo, cm *repository.CommentRepo) *CommentHandler {
	return &CommentHandler{Auctions: a, Comments: cm}
}

type commentReq struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type commentPart struct {
	ID        uint64    `json:"id"`
	AuctionID uint64    `json:"auction_id"`
	AuthorID  uint64    `json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCommentPart(cm model.Comment) commentPart {
	return commentPart{
		ID:        cm.ID,
		AuctionID: cm.AuctionID,
		AuthorID:  cm.AuthorID,
		Title:     cm.Title,
		Body:      cm.Body,
		CreatedAt: cm.CreatedAt,
		UpdatedAt: cm.UpdatedAt,
	}
}

func (h *CommentHandler) loadAuction(ctx context.Context, c echo.Context) (*model.Auction, error) {
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

func (h *CommentHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.loadAuction(ctx, c)
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}
	comments, err := h.Comments.ListByAuction(ctx, a.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]commentPart, 0, len(comments))
	for i := range comments {
		out = append(out, toCommentPart(comments[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CommentHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.loadAuction(ctx, c)
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}
	commentID, err := pathID(c, "commentId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}
	cm, err := h.Comments.GetByID(ctx, a.ID, commentID)
	if err != nil {
		if err == repository.ErrCommentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toCommentPart(*cm))
}

func (h *CommentHandler) Create(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)
	if req.Title == "" || req.Body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and body required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.loadAuction(ctx, c)
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}
	cm := model.Comment{AuctionID: a.ID, AuthorID: act.ID, Title: req.Title, Body: req.Body}
	if err := h.Comments.Create(ctx, &cm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, toCommentPart(cm))
}

func (h *CommentHandler) Update(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)
	if req.Title == "" || req.Body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and body required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.loadAuction(ctx, c)
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}
	commentID, err := pathID(c, "commentId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}
	cm, err := h.Comments.GetByID(ctx, a.ID, commentID)
	if err != nil {
		if err == repository.ErrCommentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !permission.CanModifyComment(act, cm) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	cm.Title = req.Title
	cm.Body = req.Body
	if err := h.Comments.Update(ctx, cm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toCommentPart(*cm))
}

func (h *CommentHandler) Delete(c echo.Context) error {
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
	commentID, err := pathID(c, "commentId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}
	cm, err := h.Comments.GetByID(ctx, a.ID, commentID)
	if err != nil {
		if err == repository.ErrCommentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !permission.CanModifyComment(act, cm) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Comments.Delete(ctx, cm.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pacomprar/auction-api/internal/config"
	"github.com/pacomprar/auction-api/internal/model"
	"github.com/pacomprar/auction-api/internal/repository"
	"github.com/pacomprar/auction-api/internal/utils"
)

// UserHandler serves profile self-service plus the admin user endpoints and
// the "my activity" listings.
type UserHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Auctions *repository.AuctionRepo
	Bids     *repository.BidRepo
	Ratings  *repository.RatingRepo
	Comments *repository.CommentRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo, a *repository.AuctionRepo,
	b *repository.BidRepo, rt *repository.RatingRepo, cm *repository.CommentRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u, Auctions: a, Bids: b, Ratings: rt, Comments: cm}
}

type updateProfileReq struct {
	Email        *string `json:"email"`
	BirthDate    *string `json:"birth_date"`
	Locality     *string `json:"locality"`
	Municipality *string `json:"municipality"`
}
type changePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}
type adminUpdateUserReq struct {
	updateProfileReq
	IsStaff *bool `json:"is_staff"`
}

// applyProfile merges the non-nil fields of the request into the loaded user.
func applyProfile(u *model.User, req updateProfileReq) error {
	if req.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*req.Email))
		if e == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "email cannot be empty")
		}
		u.Email = e
	}
	if req.BirthDate != nil {
		birth, err := time.Parse("2006-01-02", strings.TrimSpace(*req.BirthDate))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid birth_date, want YYYY-MM-DD")
		}
		u.BirthDate = birth
	}
	if req.Locality != nil {
		u.Locality = strings.TrimSpace(*req.Locality)
	}
	if req.Municipality != nil {
		u.Municipality = strings.TrimSpace(*req.Municipality)
	}
	return nil
}

// UpdateMe: partial update of the caller's own profile.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, act.ID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err := applyProfile(&u, req); err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}
	if err := h.Users.UpdateProfile(ctx, &u); err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toUserPart(u))
}

// ChangePassword verifies the current password before replacing it and
// revokes nothing: existing sessions stay valid until their tokens expire.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "old_password and new_password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, act.ID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.OldPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "old password does not match"})
	}
	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteMe removes the caller's account and everything they own.
func (h *UserHandler) DeleteMe(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, act.ID); err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- my activity -----

func (h *UserHandler) MyAuctions(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	if err := h.Auctions.CloseDue(ctx, now); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	list, err := h.Auctions.ListByOwner(ctx, act.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]auctionPart, 0, len(list))
	for i := range list {
		out = append(out, toAuctionPart(list[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) MyBids(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Bids.ListByBidder(ctx, act.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]bidPart, 0, len(list))
	for i := range list {
		out = append(out, toBidPart(list[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) MyRatings(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Ratings.ListByRater(ctx, act.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]ratingPart, 0, len(list))
	for i := range list {
		out = append(out, toRatingPart(list[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) MyComments(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Comments.ListByAuthor(ctx, act.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]commentPart, 0, len(list))
	for i := range list {
		out = append(out, toCommentPart(list[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// ----- admin -----

func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]userPart, 0, len(users))
	for i := range users {
		out = append(out, toUserPart(users[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toUserPart(u))
}

// Update lets an admin edit any user's profile and flip the staff flag.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req adminUpdateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := applyProfile(&u, req.updateProfileReq); err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}
	if err := h.Users.UpdateProfile(ctx, &u); err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if req.IsStaff != nil && *req.IsStaff != u.IsStaff {
		if err := h.Users.SetStaff(ctx, u.ID, *req.IsStaff); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
		u.IsStaff = *req.IsStaff
	}
	return c.JSON(http.StatusOK, toUserPart(u))
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

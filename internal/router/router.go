// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/pacomprar/auction-api/internal/handler"
	"github.com/pacomprar/auction-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the credential-exchange endpoints under /v1/auth and
// the authenticated /v1/me route. Register, login, refresh and logout work
// without an access token; logout also accepts a bare Bearer token to revoke
// every session at once.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints: the category
// catalogue and auction listings with their bids and comments. Guests can
// inspect everything here; placing bids or writing comments requires a token.
func RegisterPublic(e *echo.Echo, cat *handler.CategoryHandler, a *handler.AuctionHandler,
	b *handler.BidHandler, cm *handler.CommentHandler) {
	e.GET("/v1/categories", cat.List)
	e.GET("/v1/categories/:id", cat.Get)

	e.GET("/v1/auctions", a.List)
	e.GET("/v1/auctions/:id", a.Get)

	e.GET("/v1/auctions/:id/bids", b.List)
	e.GET("/v1/auctions/:id/bids/:bidId", b.Get)

	e.GET("/v1/auctions/:id/comments", cm.List)
	e.GET("/v1/auctions/:id/comments/:commentId", cm.Get)
}

// RegisterProtected registers every endpoint that needs a valid access token,
// plus the admin-only subtree. Ratings are fully authenticated, including
// reads.
func RegisterProtected(e *echo.Echo, jwtSecret string, u *handler.UserHandler,
	cat *handler.CategoryHandler, a *handler.AuctionHandler, b *handler.BidHandler,
	rt *handler.RatingHandler, cm *handler.CommentHandler) {

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))

	// profile self-service
	auth.PATCH("/users/me", u.UpdateMe)
	auth.PUT("/users/me/password", u.ChangePassword)
	auth.DELETE("/users/me", u.DeleteMe)

	// the caller's own activity
	auth.GET("/users/me/auctions", u.MyAuctions)
	auth.GET("/users/me/bids", u.MyBids)
	auth.GET("/users/me/ratings", u.MyRatings)
	auth.GET("/users/me/comments", u.MyComments)

	// auctions
	auth.POST("/auctions", a.Create)
	auth.PUT("/auctions/:id", a.Update)
	auth.DELETE("/auctions/:id", a.Delete)

	// bids
	auth.POST("/auctions/:id/bids", b.Create)
	auth.PUT("/auctions/:id/bids/:bidId", b.Update)
	auth.DELETE("/auctions/:id/bids/:bidId", b.Delete)

	// ratings
	auth.GET("/auctions/:id/ratings", rt.List)
	auth.GET("/auctions/:id/ratings/mine", rt.Mine)
	auth.GET("/auctions/:id/ratings/:ratingId", rt.Get)
	auth.POST("/auctions/:id/ratings", rt.Create)
	auth.PUT("/auctions/:id/ratings/:ratingId", rt.Update)
	auth.DELETE("/auctions/:id/ratings/:ratingId", rt.Delete)

	// comments
	auth.POST("/auctions/:id/comments", cm.Create)
	auth.PUT("/auctions/:id/comments/:commentId", cm.Update)
	auth.DELETE("/auctions/:id/comments/:commentId", cm.Delete)

	// admin-only: user management and the category catalogue
	admin := auth.Group("", middleware.RequireAdmin())
	admin.GET("/users", u.List)
	admin.GET("/users/:id", u.Get)
	admin.PUT("/users/:id", u.Update)
	admin.DELETE("/users/:id", u.Delete)

	admin.POST("/categories", cat.Create)
	admin.PUT("/categories/:id", cat.Update)
	admin.DELETE("/categories/:id", cat.Delete)
}

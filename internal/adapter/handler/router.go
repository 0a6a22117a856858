package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meetscribe/meetscribe/internal/infrastructure/http/middleware"
)

// Router wires every handler into the echo instance.
type Router struct {
	authHandler    *AuthHandler
	meetingHandler *MeetingHandler
	itemHandler    *ActionItemHandler
	abtestHandler  *ABTestHandler
	statHandler    *StatHandler
	exportHandler  *ExportHandler
	billingHandler *BillingHandler
	wsHandler      *WSHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter creates the router
func NewRouter(
	authHandler *AuthHandler,
	meetingHandler *MeetingHandler,
	itemHandler *ActionItemHandler,
	abtestHandler *ABTestHandler,
	statHandler *StatHandler,
	exportHandler *ExportHandler,
	billingHandler *BillingHandler,
	wsHandler *WSHandler,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		authHandler:    authHandler,
		meetingHandler: meetingHandler,
		itemHandler:    itemHandler,
		abtestHandler:  abtestHandler,
		statHandler:    statHandler,
		exportHandler:  exportHandler,
		billingHandler: billingHandler,
		wsHandler:      wsHandler,
		authMiddleware: authMiddleware,
	}
}

// Setup registers all routes
func (r *Router) Setup(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	v1 := e.Group("/v1")

	r.setupAuthRoutes(v1)
	r.setupMeetingRoutes(v1)
	r.setupActionItemRoutes(v1)
	r.setupABTestRoutes(v1)
	r.setupMiscRoutes(v1)
}

func (r *Router) setupAuthRoutes(v1 *echo.Group) {
	auth := v1.Group("/auth")
	auth.POST("/signup", r.authHandler.SignUp)
	auth.POST("/login", r.authHandler.Login)
	auth.GET("/google", r.authHandler.GoogleLogin)
	auth.GET("/google/callback", r.authHandler.GoogleCallback)
	auth.POST("/refresh", r.authHandler.Refresh)
	auth.POST("/logout", r.authHandler.Logout)
	auth.POST("/logout-all", r.authHandler.LogoutAll, r.authMiddleware.Authenticate)
	auth.GET("/me", r.authHandler.Me, r.authMiddleware.Authenticate)
}

func (r *Router) setupMeetingRoutes(v1 *echo.Group) {
	meetings := v1.Group("/meetings", r.authMiddleware.Authenticate)
	meetings.POST("/upload", r.meetingHandler.Upload)
	meetings.GET("", r.meetingHandler.List)
	meetings.GET("/search/:query", r.meetingHandler.Search)
	meetings.GET("/:id", r.meetingHandler.Get)
	meetings.GET("/:id/action-items", r.meetingHandler.Items)
	meetings.DELETE("/:id", r.meetingHandler.Delete)
}

func (r *Router) setupActionItemRoutes(v1 *echo.Group) {
	items := v1.Group("/action-items", r.authMiddleware.Authenticate)
	items.GET("", r.itemHandler.List)
	items.PATCH("/:id", r.itemHandler.Update)
	items.POST("/:id/description", r.itemHandler.GenerateDescription)
}

func (r *Router) setupABTestRoutes(v1 *echo.Group) {
	tests := v1.Group("/ab-tests", r.authMiddleware.Authenticate)
	tests.GET("", r.abtestHandler.List)
	tests.POST("", r.abtestHandler.Create)
	tests.GET("/results", r.abtestHandler.Overview)
	tests.GET("/:id/results", r.abtestHandler.Results)
}

func (r *Router) setupMiscRoutes(v1 *echo.Group) {
	v1.GET("/stats", r.statHandler.Monthly, r.authMiddleware.Authenticate)
	v1.GET("/export/:type", r.exportHandler.Export, r.authMiddleware.Authenticate)
	v1.GET("/assets", r.billingHandler.CurrentTier, r.authMiddleware.Authenticate)
	v1.GET("/billing/products", r.billingHandler.Products)

	// Gumroad calls this, no session. The ws endpoint authenticates itself
	// because browsers cannot set headers on websocket upgrades.
	v1.POST("/billing/webhook", r.billingHandler.GumroadWebhook)
	v1.GET("/ws", r.wsHandler.Serve)
}

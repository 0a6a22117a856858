package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/meetscribe/meetscribe/errors"
	"github.com/meetscribe/meetscribe/internal/usecase/billing"
	"github.com/meetscribe/meetscribe/pkg/gumroad"
)

// BillingHandler receives Gumroad pings and serves the current tier.
type BillingHandler struct {
	billingService *billing.Service
	verifier       *gumroad.Client // optional, sale lookups are skipped when nil
	logger         *zap.Logger
}

// NewBillingHandler creates a billing handler
func NewBillingHandler(billingService *billing.Service, verifier *gumroad.Client, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{billingService: billingService, verifier: verifier, logger: logger}
}

// GumroadWebhook handles POST /v1/billing/gumroad. Gumroad sends pings as
// URL-encoded form data. When a sale_id is present the sale is verified
// against the Gumroad API before any tier change is applied.
func (h *BillingHandler) GumroadWebhook(c echo.Context) error {
	email := c.FormValue("email")
	productID := c.FormValue("product_id")
	if email == "" || productID == "" {
		return HandleError(c, h.logger, apperrors.ErrInvalidPayload())
	}

	ev := &billing.PingEvent{
		Email:          email,
		ProductID:      productID,
		SubscriptionID: c.FormValue("subscription_id"),
		Refunded:       c.FormValue("refunded") == "true",
		Cancelled:      c.FormValue("cancelled") == "true",
	}

	if saleID := c.FormValue("sale_id"); saleID != "" && h.verifier != nil {
		sale, err := h.verifier.VerifySale(c.Request().Context(), saleID)
		if err != nil {
			return HandleError(c, h.logger, apperrors.ErrBillingFailed(err))
		}
		if !sale.Success || sale.Email != email || sale.ProductID != productID {
			return HandleError(c, h.logger, apperrors.ErrBillingFailed(nil).WithDetail("sale_id", saleID))
		}
		ev.Refunded = ev.Refunded || sale.Refunded
	}

	asset, err := h.billingService.HandlePing(c.Request().Context(), ev)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleSuccess(c, h.logger, asset)
}

// Products handles GET /v1/billing/products
func (h *BillingHandler) Products(c echo.Context) error {
	return HandleSuccess(c, h.logger, h.billingService.Products())
}

// CurrentTier handles GET /v1/assets and returns the caller's allowance.
func (h *BillingHandler) CurrentTier(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	asset, err := h.billingService.CurrentTier(c.Request().Context(), user.Email)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleSuccess(c, h.logger, asset)
}

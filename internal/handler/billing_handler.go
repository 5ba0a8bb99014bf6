package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"studio-service/internal/guard"
	"studio-service/internal/model"
	"studio-service/pkg/logger"
	"studio-service/prometheus"
)

// CreateCheckoutSession asks the billing provider for a hosted payment page
// to start a subscription for the studio. Teacher only.
func (h *Handler) CreateCheckoutSession(c echo.Context) error {
	prometheus.RecordStudioOperation("checkout")
	studioID := paramID(c, "studio_id")

	if _, err := guard.CheckOwner(h.DB, userID(c), studioID); err != nil {
		return respondError(c, err)
	}

	var user model.User
	if err := h.DB.First(&user, userID(c)).Error; err != nil {
		return respondError(c, err)
	}

	session, err := h.Billing.CreateCheckoutSession(c.Request().Context(), studioID, user.Email)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, session)
}

// ConfirmSubscription records a subscription the provider reports as paid.
func (h *Handler) ConfirmSubscription(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordStudioOperation("subscribe")

	var req struct {
		SubscriptionID string `json:"subscription_id"`
	}
	if err := c.Bind(&req); err != nil || req.SubscriptionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	studio, err := h.Studios.MarkSubscribed(userID(c), paramID(c, "studio_id"), req.SubscriptionID)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Subscription activated", zap.Uint("studio_id", studio.ID))

	return c.JSON(http.StatusOK, studio)
}

// CancelSubscription cancels with the provider first, then records the new
// state. Teacher only.
func (h *Handler) CancelSubscription(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordStudioOperation("cancel_subscription")
	studioID := paramID(c, "studio_id")

	studio, err := guard.CheckOwner(h.DB, userID(c), studioID)
	if err != nil {
		return respondError(c, err)
	}

	if studio.SubscriptionID != "" {
		if err := h.Billing.CancelSubscription(c.Request().Context(), studio.SubscriptionID); err != nil {
			log.Error("Billing provider cancellation failed", zap.Error(err))
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "billing provider unavailable"})
		}
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	studio, err = h.Studios.MarkSubscriptionCancelled(userID(c), studioID)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Subscription cancelled", zap.Uint("studio_id", studio.ID))

	return c.JSON(http.StatusOK, studio)
}

// ListInvoices returns the provider's invoices for the teacher's account.
func (h *Handler) ListInvoices(c echo.Context) error {
	prometheus.RecordStudioOperation("invoices")

	if _, err := guard.CheckOwner(h.DB, userID(c), paramID(c, "studio_id")); err != nil {
		return respondError(c, err)
	}

	var user model.User
	if err := h.DB.First(&user, userID(c)).Error; err != nil {
		return respondError(c, err)
	}

	invoices, err := h.Billing.ListInvoices(c.Request().Context(), user.Email)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"invoices": invoices})
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/despacholink/expediente/internal/expediente/paypal"
	"github.com/despacholink/expediente/pkg/httpx"
	"github.com/despacholink/expediente/pkg/portalsdk"
	"github.com/despacholink/expediente/pkg/slogx"
)

// PaymentsHandler proxies the PayPal checkout pair used on the public
// landing page. The browser never sees the PayPal credentials.
type PaymentsHandler struct {
	Payments *paypal.Client
}

// HandleCreateOrder handles POST /api/payments/create-order
//
//	@Summary		Create a PayPal order
//	@Description	Opens a CAPTURE-intent order in MXN. Amount defaults to the service fee.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.CreateOrderRequest	true	"Optional amount override"
//	@Success		200		{object}	portalsdk.OrderResponse			"Order ID"
//	@Failure		502		{object}	portalsdk.ErrorResponse			"PayPal unavailable"
//	@Router			/api/payments/create-order [post].
func (h *PaymentsHandler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req portalsdk.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	order, err := h.Payments.CreateOrder(ctx, req.Amount, "")
	if err != nil {
		log.Error("paypal create order failed", "err", err)
		httpx.WriteError(w, http.StatusBadGateway, "payment provider unavailable")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, portalsdk.OrderResponse{ID: order.ID, Status: order.Status})
}

// HandleCaptureOrder handles POST /api/payments/capture-order
//
//	@Summary		Capture a PayPal order
//	@Description	Captures an approved order; fails unless PayPal reports it COMPLETED.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.CaptureOrderRequest	true	"Order ID"
//	@Success		200		{object}	portalsdk.OrderResponse			"Captured order"
//	@Failure		400		{object}	portalsdk.ErrorResponse			"Missing order ID"
//	@Failure		402		{object}	portalsdk.ErrorResponse			"Order not completed"
//	@Router			/api/payments/capture-order [post].
func (h *PaymentsHandler) HandleCaptureOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req portalsdk.CaptureOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.OrderID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "order_id is required")
		return
	}

	order, err := h.Payments.CaptureOrder(ctx, req.OrderID)
	if err != nil {
		if err == paypal.ErrOrderNotCompleted {
			httpx.WriteError(w, http.StatusPaymentRequired, "order was not completed")
			return
		}
		log.Error("paypal capture failed", "order_id", req.OrderID, "err", err)
		httpx.WriteError(w, http.StatusBadGateway, "payment provider unavailable")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, portalsdk.OrderResponse{ID: order.ID, Status: order.Status})
}

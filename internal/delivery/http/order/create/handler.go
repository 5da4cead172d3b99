package create

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/BMustafa97/serverless-snacks/internal/domain/models"
	httpresponse "github.com/BMustafa97/serverless-snacks/internal/lib/http"
	"github.com/BMustafa97/serverless-snacks/pkg/logger"
)

type orderCreator interface {
	Create(ctx context.Context, cmd *models.CreateOrder) (*models.CreateOrderResult, error)
}

type Handler struct {
	log logger.Logger

	orderCreator orderCreator
}

func NewHandler(log logger.Logger, orderCreator orderCreator) *Handler {
	return &Handler{
		log:          log,
		orderCreator: orderCreator,
	}
}

type CreateOrderResponse struct {
	Message   string             `json:"message"`
	OrderID   string             `json:"orderId"`
	Status    models.OrderStatus `json:"status"`
	Timestamp time.Time          `json:"timestamp"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.log.Error("failed to read request body", logger.String("error", err.Error()))
		httpresponse.BadRequest(w, err.Error())
		return
	}

	request, err := decodeCreateOrderRequest(payload)
	if err != nil {
		h.log.Error("failed to decode request", logger.String("error", err.Error()))
		httpresponse.BadRequest(w, err.Error())
		return
	}

	if err = request.validate(); err != nil {
		h.log.Error("failed to validate request", logger.String("error", err.Error()))
		httpresponse.BadRequest(w, err.Error())
		return
	}

	result, err := h.orderCreator.Create(r.Context(), request.toCommand())
	if err != nil {
		h.log.Error("failed to create order", logger.String("error", err.Error()))
		httpresponse.InternalServerError(w, "failed to process order")
		return
	}

	httpresponse.WriteJSON(w, http.StatusOK, CreateOrderResponse{
		Message:   "Order created successfully",
		OrderID:   result.OrderID,
		Status:    result.Status,
		Timestamp: result.CreatedAt,
	})
}

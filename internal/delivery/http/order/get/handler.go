package get

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BMustafa97/serverless-snacks/internal/domain/models"
	internalErrors "github.com/BMustafa97/serverless-snacks/internal/lib/errors"
	httpresponse "github.com/BMustafa97/serverless-snacks/internal/lib/http"
	"github.com/BMustafa97/serverless-snacks/pkg/logger"
)

type orderGetter interface {
	OrderByID(ctx context.Context, orderID string) (*models.Order, error)
}

type Handler struct {
	log logger.Logger

	orderGetter orderGetter
}

func NewHandler(log logger.Logger, orderGetter orderGetter) *Handler {
	return &Handler{
		log:         log,
		orderGetter: orderGetter,
	}
}

func (h *Handler) OrderByID(w http.ResponseWriter, r *http.Request) {
	request := GetOrderRequest{
		OrderID: chi.URLParam(r, "orderId"),
	}

	if err := request.validate(); err != nil {
		h.log.Error("failed to validate request", logger.String("error", err.Error()))
		httpresponse.BadRequest(w, err.Error())
		return
	}

	order, err := h.orderGetter.OrderByID(r.Context(), request.OrderID)
	if err != nil {
		if errors.Is(err, internalErrors.ErrOrderNotFound) {
			httpresponse.NotFound(w, "order not found")
			return
		}

		h.log.Error("failed to get order", logger.String("error", err.Error()))
		httpresponse.InternalServerError(w, "failed to get order")
		return
	}

	httpresponse.WriteJSON(w, http.StatusOK, order)
}

package task

import (
	"context"
	"fmt"

	"weekend-match-api/core/errors"
	"weekend-match-api/core/logger"
	"weekend-match-api/core/queue"
	"weekend-match-api/modules/booking/service"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ConfirmPaidHandler consumes booking:confirm-paid tasks from the payment capture flow
type ConfirmPaidHandler struct {
	svc service.BookingService
}

func NewConfirmPaidHandler(svc service.BookingService) *ConfirmPaidHandler {
	return &ConfirmPaidHandler{svc: svc}
}

// ProcessTask implements asynq.Handler. A false result from the ledger is returned as
// an error so asynq retries the task, unless the booking does not exist.
func (h *ConfirmPaidHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	payload, err := queue.DecodeConfirmBookingPaid(t)
	if err != nil {
		logger.Error("ConfirmPaidHandler:Decode", "error", err)
		return err
	}

	id, err := uuid.Parse(payload.BookingID)
	if err != nil {
		logger.Error("ConfirmPaidHandler:ParseID", "error", err, "booking_id", payload.BookingID)
		return fmt.Errorf("invalid booking id %q: %w", payload.BookingID, asynq.SkipRetry)
	}

	if !h.svc.ConfirmBookingPaid(ctx, id) {
		// a booking that does not exist will never confirm
		if _, appErr := h.svc.GetBooking(ctx, id); appErr != nil && appErr.Code == errors.ErrNotFound {
			logger.Warn("ConfirmPaidHandler:UnknownBooking", "booking_id", id)
			return fmt.Errorf("confirm booking %s: %w: %w", id, appErr, asynq.SkipRetry)
		}
		return fmt.Errorf("confirm booking %s: not confirmed", id)
	}
	logger.Info("ConfirmPaidHandler:Done", "booking_id", id)
	return nil
}

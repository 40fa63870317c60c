package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"weekend-match-api/core/config"

	"github.com/hibiken/asynq"
)

const (
	TypeConfirmBookingPaid = "booking:confirm-paid"
	TypeWeekendReminders   = "weekend:reminders"
	TypeClosePastEvents    = "events:close-past"
)

const (
	// Thursday 16:00, the reminder time shown to members.
	WeekendRemindersCron = "0 16 * * 4"
	ClosePastEventsCron  = "@hourly"
)

type ConfirmBookingPaidPayload struct {
	BookingID string `json:"booking_id"`
}

func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func NewConfirmBookingPaidTask(bookingID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ConfirmBookingPaidPayload{BookingID: bookingID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeConfirmBookingPaid, payload,
		asynq.MaxRetry(10),
		asynq.Timeout(30*time.Second),
		asynq.Unique(time.Hour),
	), nil
}

func NewWeekendRemindersTask() *asynq.Task {
	return asynq.NewTask(TypeWeekendReminders, nil, asynq.MaxRetry(3), asynq.Timeout(5*time.Minute))
}

func NewClosePastEventsTask() *asynq.Task {
	return asynq.NewTask(TypeClosePastEvents, nil, asynq.MaxRetry(3), asynq.Timeout(time.Minute))
}

func DecodeConfirmBookingPaid(t *asynq.Task) (ConfirmBookingPaidPayload, error) {
	var p ConfirmBookingPaidPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("decode %s payload: %w: %w", t.Type(), err, asynq.SkipRetry)
	}
	if p.BookingID == "" {
		return p, fmt.Errorf("%s payload missing booking_id: %w", t.Type(), asynq.SkipRetry)
	}
	return p, nil
}

// Enqueuer is the subset of *asynq.Client the payment capture integration uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

package worker

import (
	"context"
	"fmt"
	"os"

	"weekend-match-api/core/app"
	"weekend-match-api/core/logger"
	"weekend-match-api/core/queue"
	"weekend-match-api/modules/booking"
	bookingTask "weekend-match-api/modules/booking/task"
	"weekend-match-api/modules/event"
	eventService "weekend-match-api/modules/event/service"
	"weekend-match-api/modules/notification"
	notificationService "weekend-match-api/modules/notification/service"

	"github.com/hibiken/asynq"
)

// NewMux routes every task type to its handler.
func NewMux(a *app.App) *asynq.ServeMux {
	bookings := booking.NewService(a.DB, a.Publisher, a.Config)
	events := event.NewService(a.DB, a.Locker, a.Publisher, a.Config)
	notifications := notification.NewService(a.DB, a.Config)

	mux := asynq.NewServeMux()
	mux.Handle(queue.TypeConfirmBookingPaid, bookingTask.NewConfirmPaidHandler(bookings))
	mux.HandleFunc(queue.TypeWeekendReminders, weekendReminders(notifications))
	mux.HandleFunc(queue.TypeClosePastEvents, closePastEvents(events))
	return mux
}

func weekendReminders(svc *notificationService.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		sent, appErr := svc.SendWeekendReminders(ctx)
		if appErr != nil {
			return appErr
		}
		logger.Info("Worker:WeekendReminders", "sent", sent)
		return nil
	}
}

func closePastEvents(svc eventService.EventServiceInterface) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		closed, appErr := svc.ClosePastEvents(ctx)
		if appErr != nil {
			return appErr
		}
		logger.Info("Worker:ClosePastEvents", "closed", closed)
		return nil
	}
}

// Run processes queued tasks and registers the periodic ones until ctx is cancelled.
func Run(ctx context.Context, a *app.App, concurrency int) error {
	redisOpt := queue.RedisOpt(a.Config.Redis)

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Logger:      slogAdapter{},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, t *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			logger.Error("Worker:TaskFailed", "type", t.Type(), "retried", retried, "error", err)
		}),
	})

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: a.Config.Location(),
		Logger:   slogAdapter{},
	})
	if _, err := scheduler.Register(queue.WeekendRemindersCron, queue.NewWeekendRemindersTask()); err != nil {
		return fmt.Errorf("register %s: %w", queue.TypeWeekendReminders, err)
	}
	if _, err := scheduler.Register(queue.ClosePastEventsCron, queue.NewClosePastEventsTask()); err != nil {
		return fmt.Errorf("register %s: %w", queue.TypeClosePastEvents, err)
	}

	if err := srv.Start(NewMux(a)); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}
	if err := scheduler.Start(); err != nil {
		srv.Shutdown()
		return fmt.Errorf("start scheduler: %w", err)
	}
	logger.Info("Worker started", "concurrency", concurrency)

	<-ctx.Done()
	logger.Info("Worker shutting down")
	scheduler.Shutdown()
	srv.Shutdown()
	return nil
}

// slogAdapter routes asynq's internal logging through the process logger.
type slogAdapter struct{}

func (slogAdapter) Debug(args ...any) { logger.Debug(fmt.Sprint(args...)) }
func (slogAdapter) Info(args ...any)  { logger.Info(fmt.Sprint(args...)) }
func (slogAdapter) Warn(args ...any)  { logger.Warn(fmt.Sprint(args...)) }
func (slogAdapter) Error(args ...any) { logger.Error(fmt.Sprint(args...)) }
func (slogAdapter) Fatal(args ...any) {
	logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}

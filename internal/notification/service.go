package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SmartBusLink/SmartBusLink/internal/assignment"
	"github.com/SmartBusLink/SmartBusLink/internal/common/logger"
	"github.com/SmartBusLink/SmartBusLink/internal/common/middleware"
)

// Dispatcher 外部推送通道（短信 / app push）。实现方自行处理重试。
type Dispatcher interface {
	Push(ctx context.Context, userID, title, message string) error
}

// Store service 需要的通知持久化接口。
type Store interface {
	Create(ctx context.Context, n *Notification) error
	MarkAssignmentRead(ctx context.Context, userID, assignmentID string) error
}

// Service 站内通知 + 外部推送。实现排班侧的 Notifier / NotificationStore
// 端口。外部推送走熔断器，通道故障时快速失败，站内记录不受影响。
type Service struct {
	store      Store
	dispatcher Dispatcher
	breaker    *middleware.CircuitBreaker
	log        logger.Logger
}

func NewService(store Store, dispatcher Dispatcher, log logger.Logger) *Service {
	return &Service{
		store:      store,
		dispatcher: dispatcher,
		breaker:    middleware.NewCircuitBreaker("notification-push", 5, 30*time.Second),
		log:        log,
	}
}

// NotifyDriverAssignment 新排班通知：先落站内消息，再尽力推送。
func (s *Service) NotifyDriverAssignment(ctx context.Context, driverID string, a *assignment.Assignment) error {
	title := "New Assignment"
	message := fmt.Sprintf("You have been assigned to route %s on %s at %s",
		a.RouteID, a.ServiceDay.Format("2006-01-02"), a.ScheduledTime)

	n := &Notification{
		ID:           uuid.NewString(),
		UserID:       driverID,
		Type:         TypeAlert,
		Title:        title,
		Message:      message,
		AssignmentID: a.ID,
	}
	if err := s.store.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	if s.dispatcher == nil {
		return nil
	}
	err := s.breaker.Call(ctx, func() error {
		return s.dispatcher.Push(ctx, driverID, title, message)
	})
	if err != nil {
		// 推送失败不影响站内记录
		s.log.Warnf("push notification to %s failed: %v", driverID, err)
	}
	return nil
}

// MarkAssignmentRead 见 Store。
func (s *Service) MarkAssignmentRead(ctx context.Context, userID, assignmentID string) error {
	return s.store.MarkAssignmentRead(ctx, userID, assignmentID)
}

package trip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SmartBusLink/SmartBusLink/internal/assignment"
	"github.com/SmartBusLink/SmartBusLink/internal/common/logger"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
)

// Store service 需要的行程持久化接口。
type Store interface {
	Create(ctx context.Context, t *Trip) error
	Save(ctx context.Context, t *Trip) error
	FindByID(ctx context.Context, id string) (*Trip, error)
	FindRunningByDriver(ctx context.Context, driverID string) (*Trip, error)
	ListByDriver(ctx context.Context, driverID string) ([]Trip, error)
}

// AssignmentStore 行程启动时回查司机当日被接受的排班。
type AssignmentStore interface {
	FindActiveByDriver(ctx context.Context, driverID string) (*assignment.Assignment, error)
}

// AssignmentCompleter 行程结束时联动完成排班（由排班 service 实现）。
type AssignmentCompleter interface {
	CompleteForTrip(ctx context.Context, driverID string, endedAt time.Time) error
}

// Service 司机行程的启停管理。行程结束会联动关闭对应排班。
type Service struct {
	store       Store
	assignments AssignmentStore
	completer   AssignmentCompleter
	log         logger.Logger
	now         func() time.Time
}

func NewService(store Store, assignments AssignmentStore, completer AssignmentCompleter, log logger.Logger) *Service {
	return &Service{
		store:       store,
		assignments: assignments,
		completer:   completer,
		log:         log,
		now:         time.Now,
	}
}

// Start 司机发车。要求有一条已接受的排班、且没有其他在途行程。
func (s *Service) Start(ctx context.Context, driverID string) (*Trip, error) {
	running, err := s.store.FindRunningByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if running != nil {
		return nil, fmt.Errorf("%w: driver already has a running trip", ErrInvalidState)
	}

	a, err := s.assignments.FindActiveByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if a == nil || a.Status != assignment.StatusAccepted {
		return nil, fmt.Errorf("%w: no accepted assignment for driver %s", ErrNotFound, driverID)
	}

	vehicleID := ""
	if a.VehicleID != nil {
		vehicleID = *a.VehicleID
	}
	startAt := s.now()
	t := &Trip{
		ID:           uuid.NewString(),
		DriverID:     driverID,
		VehicleID:    vehicleID,
		RouteID:      a.RouteID,
		AssignmentID: a.ID,
		Status:       StatusStarted,
		StartTime:    &startAt,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Pause 临时停运（报堵 / 故障），记录原因。
func (s *Service) Pause(ctx context.Context, tripID, driverID, reason string) (*Trip, error) {
	t, err := s.findOwned(ctx, tripID, driverID)
	if err != nil {
		return nil, err
	}
	if t.Status != StatusStarted {
		return nil, fmt.Errorf("%w: trip is %s", ErrInvalidState, t.Status)
	}
	at := s.now()
	t.Status = StatusPaused
	t.PauseTime = &at
	t.DelayReason = reason
	if err := s.store.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Resume 恢复运行。
func (s *Service) Resume(ctx context.Context, tripID, driverID string) (*Trip, error) {
	t, err := s.findOwned(ctx, tripID, driverID)
	if err != nil {
		return nil, err
	}
	if t.Status != StatusPaused {
		return nil, fmt.Errorf("%w: trip is %s", ErrInvalidState, t.Status)
	}
	at := s.now()
	t.Status = StatusStarted
	t.ResumeTime = &at
	if err := s.store.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// End 收车。行程落终态后联动完成排班；联动失败只记日志（排班台账自愈）。
func (s *Service) End(ctx context.Context, tripID, driverID string, passengerCount int) (*Trip, error) {
	t, err := s.findOwned(ctx, tripID, driverID)
	if err != nil {
		return nil, err
	}
	if !t.Status.Running() {
		return nil, fmt.Errorf("%w: trip is %s", ErrInvalidState, t.Status)
	}
	at := s.now()
	t.Status = StatusCompleted
	t.EndTime = &at
	if passengerCount > 0 {
		t.PassengerCount = passengerCount
	}
	if err := s.store.Save(ctx, t); err != nil {
		return nil, err
	}

	if s.completer != nil {
		if err := s.completer.CompleteForTrip(ctx, driverID, at); err != nil {
			s.log.Warnf("complete assignment for trip %s failed: %v", t.ID, err)
		}
	}
	return t, nil
}

// History 司机行程记录。
func (s *Service) History(ctx context.Context, driverID string) ([]Trip, error) {
	return s.store.ListByDriver(ctx, driverID)
}

func (s *Service) findOwned(ctx context.Context, tripID, driverID string) (*Trip, error) {
	t, err := s.store.FindByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if t == nil || t.DriverID != driverID {
		return nil, fmt.Errorf("%w: trip %s", ErrNotFound, tripID)
	}
	return t, nil
}

package trip

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SmartBusLink/SmartBusLink/internal/assignment"
	"github.com/SmartBusLink/SmartBusLink/internal/common/logger"
)

type memStore struct {
	mu    sync.Mutex
	items map[string]*Trip
}

func newMemStore() *memStore {
	return &memStore{items: make(map[string]*Trip)}
}

func (m *memStore) Create(_ context.Context, t *Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.items[t.ID] = &cp
	return nil
}

func (m *memStore) Save(_ context.Context, t *Trip) error {
	return m.Create(context.Background(), t)
}

func (m *memStore) FindByID(_ context.Context, id string) (*Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.items[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) FindRunningByDriver(_ context.Context, driverID string) (*Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.items {
		if t.DriverID == driverID && t.Status.Running() {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListByDriver(_ context.Context, driverID string) ([]Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Trip
	for _, t := range m.items {
		if t.DriverID == driverID {
			out = append(out, *t)
		}
	}
	return out, nil
}

type fakeAssignments struct {
	active *assignment.Assignment
}

func (f *fakeAssignments) FindActiveByDriver(_ context.Context, driverID string) (*assignment.Assignment, error) {
	if f.active != nil && f.active.DriverID == driverID {
		cp := *f.active
		return &cp, nil
	}
	return nil, nil
}

type recordingCompleter struct {
	calls []string
}

func (r *recordingCompleter) CompleteForTrip(_ context.Context, driverID string, _ time.Time) error {
	r.calls = append(r.calls, driverID)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Info(...interface{}) {}
func (nopLogger) Infof(string, ...interface{}) {}
func (nopLogger) Warn(...interface{}) {}
func (nopLogger) Warnf(string, ...interface{}) {}
func (nopLogger) Error(...interface{}) {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Fatal(...interface{}) {}
func (nopLogger) Fatalf(string, ...interface{}) {}
func (n nopLogger) WithFields(map[string]interface{}) logger.Logger { return n }
func (n nopLogger) WithField(string, interface{}) logger.Logger     { return n }

func acceptedAssignment(driverID string) *assignment.Assignment {
	v := "v1"
	return &assignment.Assignment{
		ID:        "a1",
		DriverID:  driverID,
		VehicleID: &v,
		RouteID:   "r1",
		Status:    assignment.StatusAccepted,
	}
}

func TestStartRequiresAcceptedAssignment(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, &fakeAssignments{}, &recordingCompleter{}, nopLogger{})

	if _, err := svc.Start(context.Background(), "d1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want not found without accepted assignment", err)
	}

	svc = NewService(store, &fakeAssignments{active: acceptedAssignment("d1")}, &recordingCompleter{}, nopLogger{})
	tr, err := svc.Start(context.Background(), "d1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if tr.Status != StatusStarted || tr.StartTime == nil {
		t.Fatalf("trip not started: %+v", tr)
	}
	if tr.AssignmentID != "a1" || tr.VehicleID != "v1" || tr.RouteID != "r1" {
		t.Fatalf("trip not linked to assignment: %+v", tr)
	}

	// 在途时不允许再次发车
	if _, err := svc.Start(context.Background(), "d1"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second start: err = %v, want invalid state", err)
	}
}

func TestPauseResume(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, &fakeAssignments{active: acceptedAssignment("d1")}, &recordingCompleter{}, nopLogger{})
	tr, err := svc.Start(context.Background(), "d1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	paused, err := svc.Pause(context.Background(), tr.ID, "d1", "traffic jam")
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if paused.Status != StatusPaused || paused.DelayReason != "traffic jam" || paused.PauseTime == nil {
		t.Fatalf("unexpected paused trip: %+v", paused)
	}
	if _, err := svc.Pause(context.Background(), tr.ID, "d1", "again"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("double pause: err = %v, want invalid state", err)
	}

	resumed, err := svc.Resume(context.Background(), tr.ID, "d1")
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed.Status != StatusStarted || resumed.ResumeTime == nil {
		t.Fatalf("unexpected resumed trip: %+v", resumed)
	}

	// 他人不可操作
	if _, err := svc.Pause(context.Background(), tr.ID, "d2", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other driver: err = %v, want not found", err)
	}
}

func TestEndCompletesAssignment(t *testing.T) {
	store := newMemStore()
	completer := &recordingCompleter{}
	svc := NewService(store, &fakeAssignments{active: acceptedAssignment("d1")}, completer, nopLogger{})
	tr, err := svc.Start(context.Background(), "d1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	ended, err := svc.End(context.Background(), tr.ID, "d1", 37)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended.Status != StatusCompleted || ended.EndTime == nil || ended.PassengerCount != 37 {
		t.Fatalf("unexpected ended trip: %+v", ended)
	}
	if len(completer.calls) != 1 || completer.calls[0] != "d1" {
		t.Fatalf("assignment completion not triggered: %v", completer.calls)
	}
	if _, err := svc.End(context.Background(), tr.ID, "d1", 0); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("double end: err = %v, want invalid state", err)
	}
}

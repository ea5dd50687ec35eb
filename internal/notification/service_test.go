package notification

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
	items []*Notification
}

func (m *memStore) Create(_ context.Context, n *Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *n
	m.items = append(m.items, &cp)
	return nil
}

func (m *memStore) MarkAssignmentRead(_ context.Context, userID, assignmentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.items {
		if n.UserID == userID && n.AssignmentID == assignmentID {
			n.IsRead = true
		}
	}
	return nil
}

type fakeDispatcher struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (f *fakeDispatcher) Push(_ context.Context, _, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return errors.New("push channel down")
	}
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

func sampleAssignment() *assignment.Assignment {
	return &assignment.Assignment{
		ID:            "a1",
		DriverID:      "d1",
		RouteID:       "r1",
		ServiceDay:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local),
		ScheduledTime: "08:30",
		Status:        assignment.StatusPending,
	}
}

func TestNotifyDriverAssignment(t *testing.T) {
	store := &memStore{}
	dispatcher := &fakeDispatcher{}
	svc := NewService(store, dispatcher, nopLogger{})

	if err := svc.NotifyDriverAssignment(context.Background(), "d1", sampleAssignment()); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(store.items) != 1 {
		t.Fatalf("notifications = %d, want 1", len(store.items))
	}
	n := store.items[0]
	if n.UserID != "d1" || n.AssignmentID != "a1" || n.Type != TypeAlert || n.IsRead {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if dispatcher.calls != 1 {
		t.Fatalf("push calls = %d, want 1", dispatcher.calls)
	}
}

func TestNotifyPushFailureIsNonFatal(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, &fakeDispatcher{fail: true}, nopLogger{})

	if err := svc.NotifyDriverAssignment(context.Background(), "d1", sampleAssignment()); err != nil {
		t.Fatalf("push failure must not surface: %v", err)
	}
	if len(store.items) != 1 {
		t.Fatalf("in-app record missing after push failure")
	}
}

func TestMarkAssignmentRead(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, nil, nopLogger{})

	if err := svc.NotifyDriverAssignment(context.Background(), "d1", sampleAssignment()); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if err := svc.MarkAssignmentRead(context.Background(), "d1", "a1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !store.items[0].IsRead {
		t.Fatalf("notification not marked read")
	}
}

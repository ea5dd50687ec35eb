package assignment

import (
	"context"
	"sync"
	"time"

	"github.com/SmartBusLink/SmartBusLink/internal/common/logger"
	"github.com/SmartBusLink/SmartBusLink/internal/depot"
	"github.com/SmartBusLink/SmartBusLink/internal/route"
	"github.com/SmartBusLink/SmartBusLink/internal/user"
	"github.com/SmartBusLink/SmartBusLink/internal/vehicle"
)

// 内存假实现，语义与 GORM 仓储保持一致（含 "(nil, nil) 表示不存在"
// 和释放时的条件更新）。

type memStore struct {
	mu    sync.Mutex
	items map[string]*Assignment
}

func newMemStore() *memStore {
	return &memStore{items: make(map[string]*Assignment)}
}

func (m *memStore) put(a *Assignment) {
	cp := *a
	cp.syncDerived()
	m.items[cp.ID] = &cp
}

func (m *memStore) Create(_ context.Context, a *Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(a)
	return nil
}

func (m *memStore) Save(_ context.Context, a *Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(a)
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *memStore) FindByID(_ context.Context, id string) (*Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.items[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) FindByIDForDriver(_ context.Context, id, driverID string) (*Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.items[id]; ok && a.DriverID == driverID {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) FindActiveByDriver(_ context.Context, driverID string) (*Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		if a.DriverID == driverID && a.Status.IsActive() {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) List(_ context.Context, f ListFilter) ([]Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Assignment
	for _, a := range m.items {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.DriverID != "" && a.DriverID != f.DriverID {
			continue
		}
		if f.RouteID != "" && a.RouteID != f.RouteID {
			continue
		}
		if f.Day != nil && !sameDay(a.ServiceDay, *f.Day) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *memStore) HasActiveOnDay(_ context.Context, driverID string, vehicleID *string, day time.Time, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		if a.ID == excludeID || !a.Status.IsActive() || !sameDay(a.ServiceDay, day) {
			continue
		}
		if a.DriverID == driverID {
			return true, nil
		}
		if vehicleID != nil && a.VehicleID != nil && *a.VehicleID == *vehicleID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) HasActiveForDriver(_ context.Context, driverID, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		if a.ID != excludeID && a.Status.IsActive() && a.DriverID == driverID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) HasActiveForVehicle(_ context.Context, vehicleID, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		if a.ID != excludeID && a.Status.IsActive() && a.VehicleID != nil && *a.VehicleID == vehicleID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ActiveDriverIDsOnDay(_ context.Context, day time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, a := range m.items {
		if a.Status.IsActive() && sameDay(a.ServiceDay, day) {
			out = append(out, a.DriverID)
		}
	}
	return out, nil
}

func (m *memStore) ActiveVehicleIDsOnDay(_ context.Context, day time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, a := range m.items {
		if a.Status.IsActive() && sameDay(a.ServiceDay, day) && a.VehicleID != nil {
			out = append(out, *a.VehicleID)
		}
	}
	return out, nil
}

func sameDay(a, b time.Time) bool {
	return NormalizeDay(a).Equal(NormalizeDay(b))
}

// staleFirstStore 第一次命中查询时返回事先捕获的旧快照，并在返回前
// 触发回调，用来复现“锁前读到旧行、锁内发生并发写”的窗口。
type staleFirstStore struct {
	Store
	stale   *Assignment
	onStale func()
	mu      sync.Mutex
	served  bool
}

func (s *staleFirstStore) serveStale() *Assignment {
	s.mu.Lock()
	if s.served {
		s.mu.Unlock()
		return nil
	}
	s.served = true
	s.mu.Unlock()
	if s.onStale != nil {
		s.onStale()
	}
	cp := *s.stale
	return &cp
}

func (s *staleFirstStore) FindByID(ctx context.Context, id string) (*Assignment, error) {
	if id == s.stale.ID {
		if a := s.serveStale(); a != nil {
			return a, nil
		}
	}
	return s.Store.FindByID(ctx, id)
}

func (s *staleFirstStore) FindActiveByDriver(ctx context.Context, driverID string) (*Assignment, error) {
	if driverID == s.stale.DriverID {
		if a := s.serveStale(); a != nil {
			return a, nil
		}
	}
	return s.Store.FindActiveByDriver(ctx, driverID)
}

type memDrivers struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func newMemDrivers(users ...*user.User) *memDrivers {
	m := &memDrivers{users: make(map[string]*user.User)}
	for _, u := range users {
		cp := *u
		m.users[u.ID] = &cp
	}
	return m
}

func (m *memDrivers) get(id string) *user.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp
	}
	return nil
}

func (m *memDrivers) FindByID(_ context.Context, id string) (*user.User, error) {
	return m.get(id), nil
}

func (m *memDrivers) FindDriver(_ context.Context, id string) (*user.User, error) {
	u := m.get(id)
	if u == nil || u.UserType != user.TypeDriver {
		return nil, nil
	}
	return u, nil
}

func (m *memDrivers) BindAssignment(_ context.Context, driverID, assignmentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[driverID]; ok {
		u.DutyStatus = user.DutyAssigned
		u.CurrentAssignmentID = assignmentID
	}
	return nil
}

func (m *memDrivers) ReleaseAssignment(_ context.Context, driverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[driverID]; ok && u.DutyStatus == user.DutyAssigned {
		u.DutyStatus = user.DutyAvailable
		u.CurrentAssignmentID = ""
	}
	return nil
}

func (m *memDrivers) ForceAvailable(_ context.Context, driverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[driverID]; ok {
		u.DutyStatus = user.DutyAvailable
		u.CurrentAssignmentID = ""
	}
	return nil
}

func (m *memDrivers) SetDutyStatus(_ context.Context, driverID string, status user.DutyStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[driverID]; ok {
		u.DutyStatus = status
		if status != user.DutyAvailable {
			u.CurrentAssignmentID = ""
		}
	}
	return nil
}

func (m *memDrivers) ListActiveDrivers(_ context.Context) ([]user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []user.User
	for _, u := range m.users {
		if u.UserType == user.TypeDriver && u.IsActive {
			out = append(out, *u)
		}
	}
	return out, nil
}

type memVehicles struct {
	mu       sync.Mutex
	vehicles map[string]*vehicle.Vehicle
}

func newMemVehicles(vehicles ...*vehicle.Vehicle) *memVehicles {
	m := &memVehicles{vehicles: make(map[string]*vehicle.Vehicle)}
	for _, v := range vehicles {
		cp := *v
		m.vehicles[v.ID] = &cp
	}
	return m
}

func (m *memVehicles) get(id string) *vehicle.Vehicle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.vehicles[id]; ok {
		cp := *v
		return &cp
	}
	return nil
}

func (m *memVehicles) FindByID(_ context.Context, id string) (*vehicle.Vehicle, error) {
	return m.get(id), nil
}

func (m *memVehicles) BindAssignment(_ context.Context, vehicleID, assignmentID string, day time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.vehicles[vehicleID]; ok {
		v.AssignmentStatus = vehicle.AssignmentAssigned
		v.CurrentAssignmentID = assignmentID
		d := day
		v.CurrentAssignmentDate = &d
	}
	return nil
}

func (m *memVehicles) ReleaseAssignment(_ context.Context, vehicleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.vehicles[vehicleID]; ok && v.AssignmentStatus == vehicle.AssignmentAssigned {
		v.AssignmentStatus = vehicle.AssignmentAvailable
		v.CurrentAssignmentID = ""
		v.CurrentAssignmentDate = nil
	}
	return nil
}

func (m *memVehicles) ListActive(_ context.Context) ([]vehicle.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []vehicle.Vehicle
	for _, v := range m.vehicles {
		if v.IsActive {
			out = append(out, *v)
		}
	}
	return out, nil
}

type memRoutes struct {
	routes map[string]*route.Route
}

func newMemRoutes(routes ...*route.Route) *memRoutes {
	m := &memRoutes{routes: make(map[string]*route.Route)}
	for _, r := range routes {
		cp := *r
		m.routes[r.ID] = &cp
	}
	return m
}

func (m *memRoutes) FindByID(_ context.Context, id string) (*route.Route, error) {
	if r, ok := m.routes[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

type memDepots struct {
	depots map[string]*depot.Depot
}

func newMemDepots(depots ...*depot.Depot) *memDepots {
	m := &memDepots{depots: make(map[string]*depot.Depot)}
	for _, d := range depots {
		cp := *d
		m.depots[d.ID] = &cp
	}
	return m
}

func (m *memDepots) FindByID(_ context.Context, id string) (*depot.Depot, error) {
	if d, ok := m.depots[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string // driverID
}

func (r *recordingNotifier) NotifyDriverAssignment(_ context.Context, driverID string, _ *Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, driverID)
	return nil
}

type recordingReads struct {
	mu    sync.Mutex
	calls [][2]string // userID, assignmentID
}

func (r *recordingReads) MarkAssignmentRead(_ context.Context, userID, assignmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, [2]string{userID, assignmentID})
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

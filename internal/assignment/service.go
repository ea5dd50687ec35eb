package assignment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SmartBusLink/SmartBusLink/internal/common/keymutex"
	"github.com/SmartBusLink/SmartBusLink/internal/common/logger"
	"github.com/SmartBusLink/SmartBusLink/internal/user"
	"github.com/SmartBusLink/SmartBusLink/internal/vehicle"
)

// Service 排班业务：创建 / 编辑 / 司机响应 / 完成 / 删除 / 重置，
// 以及司机、车辆的可用性查询。所有写路径都走按实体 id 的互斥锁，
// 把“冲突检查 -> 落库”整体串行化；存储层的唯一索引再兜底一次。
type Service struct {
	store         Store
	drivers       DriverStore
	vehicles      VehicleStore
	routes        RouteStore
	depots        DepotStore
	conflict      *ConflictChecker
	ledger        *Ledger
	locks         *keymutex.KeyMutex
	notifier      Notifier
	notifications NotificationStore
	log           logger.Logger
	now           func() time.Time
}

func NewService(store Store, drivers DriverStore, vehicles VehicleStore, routes RouteStore, depots DepotStore, notifier Notifier, notifications NotificationStore, log logger.Logger) *Service {
	return &Service{
		store:         store,
		drivers:       drivers,
		vehicles:      vehicles,
		routes:        routes,
		depots:        depots,
		conflict:      NewConflictChecker(store),
		ledger:        NewLedger(store, drivers, vehicles, log),
		locks:         keymutex.New(),
		notifier:      notifier,
		notifications: notifications,
		log:           log,
		now:           time.Now,
	}
}

// CreateInput 创建排班的入参。VehicleID/DepotID 为空表示未指定；
// StartTime 未给时按 ServiceDay+ScheduledTime 派生。
type CreateInput struct {
	DriverID      string
	VehicleID     string
	RouteID       string
	DepotID       string
	ServiceDay    time.Time
	ScheduledTime string
	StartTime     *time.Time
	EndTime       *time.Time
	Notes         string
	AssignedBy    string
}

// Create 派单：校验实体 -> 冲突检查 -> 解析车场 -> 落库 -> 更新台账 -> 通知。
func (s *Service) Create(ctx context.Context, in CreateInput) (*Detail, error) {
	if in.DriverID == "" || in.RouteID == "" {
		return nil, invalidInputf("driverId and routeId are required")
	}
	if in.ServiceDay.IsZero() {
		return nil, invalidInputf("serviceDay is required")
	}
	if _, _, err := ParseClock(in.ScheduledTime); err != nil {
		return nil, invalidInputf("scheduledTime: %v", err)
	}

	drv, err := s.drivers.FindDriver(ctx, in.DriverID)
	if err != nil {
		return nil, err
	}
	if drv == nil || !drv.IsDriver() {
		return nil, notFoundf("driver %s", in.DriverID)
	}
	if drv.DutyStatus.Manual() {
		return nil, conflictf("driver %s is %s", in.DriverID, drv.DutyStatus)
	}

	rt, err := s.routes.FindByID(ctx, in.RouteID)
	if err != nil {
		return nil, err
	}
	if rt == nil || !rt.IsActive {
		return nil, notFoundf("route %s", in.RouteID)
	}

	var veh *vehicle.Vehicle
	if in.VehicleID != "" {
		veh, err = s.vehicles.FindByID(ctx, in.VehicleID)
		if err != nil {
			return nil, err
		}
		if veh == nil || !veh.IsActive {
			return nil, notFoundf("vehicle %s", in.VehicleID)
		}
		if !veh.Operable() {
			return nil, conflictf("vehicle %s is not operable", in.VehicleID)
		}
	}

	if in.DepotID != "" {
		dp, err := s.depots.FindByID(ctx, in.DepotID)
		if err != nil {
			return nil, err
		}
		if dp == nil || !dp.IsActive {
			return nil, notFoundf("depot %s", in.DepotID)
		}
	}

	day := NormalizeDay(in.ServiceDay)

	unlock := s.locks.LockKeys(lockKeys(in.DriverID, in.VehicleID)...)
	defer unlock()

	var vehID *string
	if in.VehicleID != "" {
		v := in.VehicleID
		vehID = &v
	}
	busy, err := s.conflict.HasConflict(ctx, in.DriverID, vehID, day, "")
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, conflictf("driver or vehicle already has an active assignment on %s", day.Format("2006-01-02"))
	}

	a := &Assignment{
		ID:            uuid.NewString(),
		DriverID:      in.DriverID,
		VehicleID:     vehID,
		RouteID:       in.RouteID,
		ServiceDay:    day,
		ScheduledTime: strings.TrimSpace(in.ScheduledTime),
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		Status:        StatusPending,
		Notes:         in.Notes,
		AssignedBy:    in.AssignedBy,
	}
	vehicleDepot := ""
	if veh != nil {
		vehicleDepot = veh.DepotID
	}
	if dep := ResolveDepot(in.DepotID, vehicleDepot, drv.HomeDepotID); dep != "" {
		d := dep
		a.DepotID = &d
	}
	a.syncDerived()

	if err := s.store.Create(ctx, a); err != nil {
		return nil, s.translateStoreErr(err, day)
	}

	if err := s.ledger.BindDriver(ctx, in.DriverID, a.ID); err != nil {
		s.log.Warnf("bind driver %s to assignment %s failed: %v", in.DriverID, a.ID, err)
	}
	if vehID != nil {
		if err := s.ledger.BindVehicle(ctx, *vehID, a.ID, day); err != nil {
			s.log.Warnf("bind vehicle %s to assignment %s failed: %v", *vehID, a.ID, err)
		}
	}

	s.notifyAsync(in.DriverID, a)
	return s.hydrate(ctx, a), nil
}

// UpdateInput 编辑排班；nil 字段表示不变。VehicleID 指向空串表示移除车辆，
// DriverID 指向新司机表示改派。
type UpdateInput struct {
	DriverID      *string
	VehicleID     *string
	RouteID       *string
	DepotID       *string
	ServiceDay    *time.Time
	ScheduledTime *string
	StartTime     *time.Time
	EndTime       *time.Time
	Status        *Status
	Notes         *string
	ClearEndTime  bool
}

// Update 管理员编辑排班。换司机 / 改期 / 换车会重新做冲突检查；
// 状态修改受状态机约束；释放出来的司机 / 车辆由台账回收。
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Detail, error) {
	// 第一次读只用来算锁键，拿到锁后还会重读
	peek, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if peek == nil {
		return nil, notFoundf("assignment %s", id)
	}

	peekVehicle := ""
	if peek.VehicleID != nil {
		peekVehicle = *peek.VehicleID
	}
	lockVehicle := peekVehicle
	if in.VehicleID != nil {
		lockVehicle = *in.VehicleID
	}
	lockDriver := peek.DriverID
	if in.DriverID != nil {
		lockDriver = *in.DriverID
	}

	unlock := s.locks.LockKeys(lockKeys(peek.DriverID, lockDriver, peekVehicle, lockVehicle)...)
	defer unlock()

	// 拿到锁后重读，避免整行覆盖掉并发写入（比如司机刚接单）
	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, notFoundf("assignment %s", id)
	}

	oldDriver := a.DriverID
	oldVehicle := ""
	if a.VehicleID != nil {
		oldVehicle = *a.VehicleID
	}
	newVehicle := oldVehicle
	if in.VehicleID != nil {
		newVehicle = *in.VehicleID
	}

	driverChanged := in.DriverID != nil && *in.DriverID != oldDriver
	if driverChanged {
		newDriver := *in.DriverID
		if newDriver == "" {
			return nil, invalidInputf("driverId cannot be empty")
		}
		drv, err := s.drivers.FindDriver(ctx, newDriver)
		if err != nil {
			return nil, err
		}
		if drv == nil || !drv.IsDriver() {
			return nil, notFoundf("driver %s", newDriver)
		}
		if drv.DutyStatus.Manual() {
			return nil, conflictf("driver %s is %s", newDriver, drv.DutyStatus)
		}
		a.DriverID = newDriver
	}

	if in.RouteID != nil && *in.RouteID != a.RouteID {
		rt, err := s.routes.FindByID(ctx, *in.RouteID)
		if err != nil {
			return nil, err
		}
		if rt == nil || !rt.IsActive {
			return nil, notFoundf("route %s", *in.RouteID)
		}
		a.RouteID = *in.RouteID
	}

	if in.VehicleID != nil && newVehicle != oldVehicle {
		if newVehicle == "" {
			a.VehicleID = nil
		} else {
			veh, err := s.vehicles.FindByID(ctx, newVehicle)
			if err != nil {
				return nil, err
			}
			if veh == nil || !veh.IsActive {
				return nil, notFoundf("vehicle %s", newVehicle)
			}
			if !veh.Operable() {
				return nil, conflictf("vehicle %s is not operable", newVehicle)
			}
			v := newVehicle
			a.VehicleID = &v
		}
	}

	if in.DepotID == nil && (driverChanged || (in.VehicleID != nil && newVehicle != oldVehicle)) {
		// 未显式指定车场时，换车 / 换司机后重新解析归属
		vehicleDepot := ""
		if a.VehicleID != nil {
			if veh, verr := s.vehicles.FindByID(ctx, *a.VehicleID); verr == nil && veh != nil {
				vehicleDepot = veh.DepotID
			}
		}
		driverHome := ""
		if drv, derr := s.drivers.FindByID(ctx, a.DriverID); derr == nil && drv != nil {
			driverHome = drv.HomeDepotID
		}
		if dep := ResolveDepot("", vehicleDepot, driverHome); dep != "" {
			d := dep
			a.DepotID = &d
		} else {
			a.DepotID = nil
		}
	}
	if in.DepotID != nil {
		if *in.DepotID == "" {
			a.DepotID = nil
		} else {
			dp, err := s.depots.FindByID(ctx, *in.DepotID)
			if err != nil {
				return nil, err
			}
			if dp == nil || !dp.IsActive {
				return nil, notFoundf("depot %s", *in.DepotID)
			}
			d := *in.DepotID
			a.DepotID = &d
		}
	}

	dayChanged := false
	if in.ServiceDay != nil {
		d := NormalizeDay(*in.ServiceDay)
		if !d.Equal(a.ServiceDay) {
			a.ServiceDay = d
			dayChanged = true
		}
	}
	if in.ScheduledTime != nil {
		if _, _, err := ParseClock(*in.ScheduledTime); err != nil {
			return nil, invalidInputf("scheduledTime: %v", err)
		}
		a.ScheduledTime = strings.TrimSpace(*in.ScheduledTime)
	}
	if dayChanged || in.ScheduledTime != nil {
		// 改期后重新派生起始时间；显式传入的起始时间优先
		a.StartTime = nil
	}
	if in.StartTime != nil {
		a.StartTime = in.StartTime
	}
	if in.EndTime != nil {
		a.EndTime = in.EndTime
	}
	if in.Notes != nil {
		a.Notes = *in.Notes
	}
	if in.ClearEndTime {
		a.EndTime = nil
	}

	oldStatus := a.Status
	if in.Status != nil && *in.Status != oldStatus {
		if !in.Status.Valid() {
			return nil, invalidInputf("unknown status %q", *in.Status)
		}
		if !CanTransition(oldStatus, *in.Status) {
			return nil, invalidStatef("cannot change assignment from %s to %s", oldStatus, *in.Status)
		}
		if err := ApplyTransition(a, *in.Status, s.now()); err != nil {
			return nil, invalidStatef("%v", err)
		}
	}

	// 仍处于活跃状态时，改动后的组合需要重新过冲突检查
	if a.Status.IsActive() && (dayChanged || driverChanged || newVehicle != oldVehicle) {
		busy, err := s.conflict.HasConflict(ctx, a.DriverID, a.VehicleID, a.ServiceDay, a.ID)
		if err != nil {
			return nil, err
		}
		if busy {
			return nil, conflictf("driver or vehicle already has an active assignment on %s", a.ServiceDay.Format("2006-01-02"))
		}
	}

	a.syncDerived()
	if err := s.store.Save(ctx, a); err != nil {
		return nil, s.translateStoreErr(err, a.ServiceDay)
	}

	// 台账善后：换下来的司机 / 车辆回收；转入终态则成对释放；
	// 换上去的司机 / 车辆绑定。
	if driverChanged {
		if err := s.ledger.ReleaseDriverIfIdle(ctx, oldDriver, a.ID); err != nil {
			s.log.Warnf("release driver %s failed: %v", oldDriver, err)
		}
	}
	if oldVehicle != "" && oldVehicle != newVehicle {
		if err := s.ledger.ReleaseVehicleIfIdle(ctx, oldVehicle, a.ID); err != nil {
			s.log.Warnf("release vehicle %s failed: %v", oldVehicle, err)
		}
	}
	if a.Status.IsActive() {
		if driverChanged {
			if err := s.ledger.BindDriver(ctx, a.DriverID, a.ID); err != nil {
				s.log.Warnf("bind driver %s failed: %v", a.DriverID, err)
			}
		}
		if a.VehicleID != nil && (dayChanged || newVehicle != oldVehicle) {
			if err := s.ledger.BindVehicle(ctx, *a.VehicleID, a.ID, a.ServiceDay); err != nil {
				s.log.Warnf("bind vehicle %s failed: %v", *a.VehicleID, err)
			}
		}
	} else if oldStatus.IsActive() {
		s.ledger.releaseBoth(ctx, a)
	}

	return s.hydrate(ctx, a), nil
}

// Respond 司机响应派单（接受 / 拒绝）。只允许司机本人操作自己的
// pending 排班；已处理过的单返回“已处理”而不是 404。
func (s *Service) Respond(ctx context.Context, assignmentID, driverID string, accept bool, response string) (*Assignment, error) {
	a, err := s.store.FindByIDForDriver(ctx, assignmentID, driverID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, notFoundf("assignment %s", assignmentID)
	}

	vehicleID := ""
	if a.VehicleID != nil {
		vehicleID = *a.VehicleID
	}
	unlock := s.locks.LockKeys(lockKeys(driverID, vehicleID)...)
	defer unlock()

	// 拿到锁后重读，避免并发响应双写
	a, err = s.store.FindByIDForDriver(ctx, assignmentID, driverID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, notFoundf("assignment %s", assignmentID)
	}
	if a.Status != StatusPending {
		return nil, invalidStatef("assignment already processed")
	}

	to := StatusRejected
	if accept {
		to = StatusAccepted
	}
	if err := ApplyTransition(a, to, s.now()); err != nil {
		return nil, invalidStatef("%v", err)
	}
	a.DriverResponse = response

	if err := s.store.Save(ctx, a); err != nil {
		return nil, err
	}

	if accept {
		// 重新绑定一次（幂等），修复台账可能的漂移
		if err := s.ledger.BindDriver(ctx, driverID, a.ID); err != nil {
			s.log.Warnf("bind driver %s failed: %v", driverID, err)
		}
		if a.VehicleID != nil && *a.VehicleID != "" {
			if err := s.ledger.BindVehicle(ctx, *a.VehicleID, a.ID, a.ServiceDay); err != nil {
				s.log.Warnf("bind vehicle %s failed: %v", *a.VehicleID, err)
			}
		}
	} else {
		s.ledger.releaseBoth(ctx, a)
	}

	if s.notifications != nil {
		if err := s.notifications.MarkAssignmentRead(ctx, driverID, a.ID); err != nil {
			s.log.Warnf("mark notifications read for assignment %s failed: %v", a.ID, err)
		}
	}
	return a, nil
}

// CompleteForTrip 行程结束时联动完成排班。只有 accepted 的排班会被
// 置为 completed；其余状态静默跳过（行程结束不应因此失败）。
func (s *Service) CompleteForTrip(ctx context.Context, driverID string, endedAt time.Time) error {
	a, err := s.store.FindActiveByDriver(ctx, driverID)
	if err != nil {
		return err
	}
	if a == nil || a.Status != StatusAccepted {
		return nil
	}

	vehicleID := ""
	if a.VehicleID != nil {
		vehicleID = *a.VehicleID
	}
	unlock := s.locks.LockKeys(lockKeys(driverID, vehicleID)...)
	defer unlock()

	// 拿到锁后重读，排班可能刚被管理员重置或改掉
	a, err = s.store.FindActiveByDriver(ctx, driverID)
	if err != nil {
		return err
	}
	if a == nil || a.Status != StatusAccepted {
		return nil
	}

	if err := ApplyTransition(a, StatusCompleted, endedAt); err != nil {
		return nil
	}
	if err := s.store.Save(ctx, a); err != nil {
		return err
	}
	s.ledger.releaseBoth(ctx, a)
	return nil
}

// Delete 删除排班。活跃排班删除前先释放台账占用。
func (s *Service) Delete(ctx context.Context, id string) error {
	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return notFoundf("assignment %s", id)
	}

	vehicleID := ""
	if a.VehicleID != nil {
		vehicleID = *a.VehicleID
	}
	unlock := s.locks.LockKeys(lockKeys(a.DriverID, vehicleID)...)
	defer unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if a.Status.IsActive() {
		s.ledger.releaseBoth(ctx, a)
	}
	return nil
}

// ResetDriver 管理员覆盖：强制拒绝司机的活跃排班并无条件恢复 available。
// 没有活跃排班时为幂等空操作，返回空串。
func (s *Service) ResetDriver(ctx context.Context, driverID string) (clearedAssignmentID string, err error) {
	drv, err := s.drivers.FindDriver(ctx, driverID)
	if err != nil {
		return "", err
	}
	if drv == nil {
		return "", notFoundf("driver %s", driverID)
	}

	unlock := s.locks.LockKeys(driverID)
	defer unlock()

	a, err := s.store.FindActiveByDriver(ctx, driverID)
	if err != nil {
		return "", err
	}
	if a != nil {
		a.Status = StatusRejected
		note := "[System] Assignment reset by admin"
		if a.Notes != "" {
			a.Notes = a.Notes + " | " + note
		} else {
			a.Notes = note
		}
		a.syncDerived()
		if err := s.store.Save(ctx, a); err != nil {
			return "", err
		}
		if a.VehicleID != nil && *a.VehicleID != "" {
			if rerr := s.ledger.ReleaseVehicleIfIdle(ctx, *a.VehicleID, a.ID); rerr != nil {
				s.log.Warnf("release vehicle %s failed: %v", *a.VehicleID, rerr)
			}
		}
		clearedAssignmentID = a.ID
	}

	if err := s.drivers.ForceAvailable(ctx, driverID); err != nil {
		return "", err
	}
	return clearedAssignmentID, nil
}

// SetDriverDutyStatus 人工设置司机执勤状态（下班 / 请假 / 恢复）。
// 司机尚有活跃排班时拒绝：必须先重置或等排班结束。
func (s *Service) SetDriverDutyStatus(ctx context.Context, driverID string, status user.DutyStatus) error {
	switch status {
	case user.DutyAvailable, user.DutyOffDuty, user.DutyOnLeave:
	default:
		return invalidInputf("unknown duty status %q", status)
	}

	drv, err := s.drivers.FindDriver(ctx, driverID)
	if err != nil {
		return err
	}
	if drv == nil {
		return notFoundf("driver %s", driverID)
	}

	unlock := s.locks.LockKeys(driverID)
	defer unlock()

	busy, err := s.store.HasActiveForDriver(ctx, driverID, "")
	if err != nil {
		return err
	}
	if busy {
		return conflictf("driver %s has active assignments", driverID)
	}
	return s.drivers.SetDutyStatus(ctx, driverID, status)
}

// Get 按 id 查询排班并装配关联实体。
func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, notFoundf("assignment %s", id)
	}
	return s.hydrate(ctx, a), nil
}

// GetForDriver 司机查询自己的排班。
func (s *Service) GetForDriver(ctx context.Context, id, driverID string) (*Detail, error) {
	a, err := s.store.FindByIDForDriver(ctx, id, driverID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, notFoundf("assignment %s", id)
	}
	return s.hydrate(ctx, a), nil
}

// List 条件查询排班列表（含关联实体）。
func (s *Service) List(ctx context.Context, f ListFilter) ([]Detail, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, invalidInputf("unknown status %q", f.Status)
	}
	items, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]Detail, 0, len(items))
	for i := range items {
		out = append(out, *s.hydrate(ctx, &items[i]))
	}
	return out, nil
}

// AvailableDrivers 指定服务日可派的司机：账号有效、非人工停勤、
// 且当日没有活跃排班。
func (s *Service) AvailableDrivers(ctx context.Context, day time.Time) ([]user.User, error) {
	if day.IsZero() {
		return nil, invalidInputf("serviceDay is required")
	}
	drivers, err := s.drivers.ListActiveDrivers(ctx)
	if err != nil {
		return nil, err
	}
	busyIDs, err := s.store.ActiveDriverIDsOnDay(ctx, day)
	if err != nil {
		return nil, err
	}
	busy := toSet(busyIDs)
	out := make([]user.User, 0, len(drivers))
	for _, d := range drivers {
		if d.DutyStatus.Manual() {
			continue
		}
		if _, ok := busy[d.ID]; ok {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// AvailableVehicles 指定服务日可用的车辆：车况可用且当日未被占用。
func (s *Service) AvailableVehicles(ctx context.Context, day time.Time) ([]vehicle.Vehicle, error) {
	if day.IsZero() {
		return nil, invalidInputf("serviceDay is required")
	}
	vehicles, err := s.vehicles.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	busyIDs, err := s.store.ActiveVehicleIDsOnDay(ctx, day)
	if err != nil {
		return nil, err
	}
	busy := toSet(busyIDs)
	out := make([]vehicle.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if !v.Operable() {
			continue
		}
		if _, ok := busy[v.ID]; ok {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// hydrate 装配关联实体；单个关联查询失败只记日志，不让整个查询失败。
func (s *Service) hydrate(ctx context.Context, a *Assignment) *Detail {
	d := &Detail{Assignment: *a}
	if drv, err := s.drivers.FindByID(ctx, a.DriverID); err == nil {
		d.Driver = drv
	} else {
		s.log.Warnf("load driver %s failed: %v", a.DriverID, err)
	}
	if a.VehicleID != nil && *a.VehicleID != "" {
		if v, err := s.vehicles.FindByID(ctx, *a.VehicleID); err == nil {
			d.Vehicle = v
		} else {
			s.log.Warnf("load vehicle %s failed: %v", *a.VehicleID, err)
		}
	}
	if rt, err := s.routes.FindByID(ctx, a.RouteID); err == nil {
		d.Route = rt
	} else {
		s.log.Warnf("load route %s failed: %v", a.RouteID, err)
	}
	if a.DepotID != nil && *a.DepotID != "" {
		if dp, err := s.depots.FindByID(ctx, *a.DepotID); err == nil {
			d.Depot = dp
		} else {
			s.log.Warnf("load depot %s failed: %v", *a.DepotID, err)
		}
	}
	if a.AssignedBy != "" {
		if u, err := s.drivers.FindByID(ctx, a.AssignedBy); err == nil {
			d.Assigner = u
		}
	}
	return d
}

// notifyAsync 派单成功后异步通知司机；失败只记日志。
func (s *Service) notifyAsync(driverID string, a *Assignment) {
	if s.notifier == nil {
		return
	}
	cp := *a
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.notifier.NotifyDriverAssignment(ctx, driverID, &cp); err != nil {
			s.log.Warnf("notify driver %s for assignment %s failed: %v", driverID, cp.ID, err)
		}
	}()
}

// translateStoreErr 把唯一索引冲突翻译成业务冲突错误。
func (s *Service) translateStoreErr(err error, day time.Time) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflictf("driver or vehicle already has an active assignment on %s", NormalizeDay(day).Format("2006-01-02"))
	}
	return err
}

func lockKeys(ids ...string) []string {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			keys = append(keys, id)
		}
	}
	return keys
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

package assignment

import (
	"context"
	"time"

	"github.com/SmartBusLink/SmartBusLink/internal/common/logger"
)

// Ledger 司机/车辆可用性台账。
//
// 释放采用“重推导”而不是计数：每次释放前都从排班表重新查询
// 是否还有其他活跃排班，查不到才清除绑定。台账因此不会与排班表
// 漂移（自愈），代价是每次释放多一次查询。
type Ledger struct {
	store    Store
	drivers  DriverStore
	vehicles VehicleStore
	log      logger.Logger
}

func NewLedger(store Store, drivers DriverStore, vehicles VehicleStore, log logger.Logger) *Ledger {
	return &Ledger{store: store, drivers: drivers, vehicles: vehicles, log: log}
}

// BindDriver 绑定司机到排班（幂等：重复绑定同一排班等价于覆盖写）。
func (l *Ledger) BindDriver(ctx context.Context, driverID, assignmentID string) error {
	return l.drivers.BindAssignment(ctx, driverID, assignmentID)
}

// ReleaseDriverIfIdle 若司机已无其他活跃排班则释放其绑定。
// 仅覆盖 assigned 状态；人工设置的 off_duty / on_leave 保持不变。
func (l *Ledger) ReleaseDriverIfIdle(ctx context.Context, driverID, excludeAssignmentID string) error {
	if driverID == "" {
		return nil
	}
	busy, err := l.store.HasActiveForDriver(ctx, driverID, excludeAssignmentID)
	if err != nil {
		return err
	}
	if busy {
		return nil
	}
	return l.drivers.ReleaseAssignment(ctx, driverID)
}

// BindVehicle 绑定车辆到排班，并记录服务日。
func (l *Ledger) BindVehicle(ctx context.Context, vehicleID, assignmentID string, day time.Time) error {
	return l.vehicles.BindAssignment(ctx, vehicleID, assignmentID, NormalizeDay(day))
}

// ReleaseVehicleIfIdle 若车辆已无其他活跃排班则释放其占用。
func (l *Ledger) ReleaseVehicleIfIdle(ctx context.Context, vehicleID, excludeAssignmentID string) error {
	if vehicleID == "" {
		return nil
	}
	busy, err := l.store.HasActiveForVehicle(ctx, vehicleID, excludeAssignmentID)
	if err != nil {
		return err
	}
	if busy {
		return nil
	}
	return l.vehicles.ReleaseAssignment(ctx, vehicleID)
}

// releaseBoth 状态转入终态后的成对释放；释放失败只记日志，
// 不回滚已提交的状态变更（台账靠重推导自愈）。
func (l *Ledger) releaseBoth(ctx context.Context, a *Assignment) {
	if err := l.ReleaseDriverIfIdle(ctx, a.DriverID, a.ID); err != nil && l.log != nil {
		l.log.Warnf("release driver %s failed: %v", a.DriverID, err)
	}
	if a.VehicleID != nil && *a.VehicleID != "" {
		if err := l.ReleaseVehicleIfIdle(ctx, *a.VehicleID, a.ID); err != nil && l.log != nil {
			l.log.Warnf("release vehicle %s failed: %v", *a.VehicleID, err)
		}
	}
}

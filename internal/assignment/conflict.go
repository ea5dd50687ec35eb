package assignment

import (
	"context"
	"time"
)

// ConflictChecker 判断一个（司机, 车辆?, 服务日）组合是否与已有
// 活跃排班冲突。冲突粒度是“天”：同一天内即使时间段不重叠也算冲突。
// 只读，无副作用，可重复调用。
type ConflictChecker struct {
	store Store
}

func NewConflictChecker(store Store) *ConflictChecker {
	return &ConflictChecker{store: store}
}

// HasConflict excludeID 用于原地编辑时排除记录自身。
func (c *ConflictChecker) HasConflict(ctx context.Context, driverID string, vehicleID *string, day time.Time, excludeID string) (bool, error) {
	if c == nil || c.store == nil {
		return false, nil
	}
	return c.store.HasActiveOnDay(ctx, driverID, vehicleID, NormalizeDay(day), excludeID)
}

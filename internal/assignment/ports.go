package assignment

import (
	"context"
	"time"

	"github.com/SmartBusLink/SmartBusLink/internal/depot"
	"github.com/SmartBusLink/SmartBusLink/internal/route"
	"github.com/SmartBusLink/SmartBusLink/internal/user"
	"github.com/SmartBusLink/SmartBusLink/internal/vehicle"
)

// 本包对外部存储只依赖下列窄接口；GORM 仓储是默认实现，
// 测试用内存假实现。"查不到" 约定返回 (nil, nil) 而不是错误。

// Store 排班表的持久化接口。
type Store interface {
	Create(ctx context.Context, a *Assignment) error
	Save(ctx context.Context, a *Assignment) error
	Delete(ctx context.Context, id string) error

	FindByID(ctx context.Context, id string) (*Assignment, error)
	// FindByIDForDriver 限定司机本人的排班（司机只能操作自己的单）。
	FindByIDForDriver(ctx context.Context, id, driverID string) (*Assignment, error)
	// FindActiveByDriver 返回司机任意一个活跃排班（pending/accepted）。
	FindActiveByDriver(ctx context.Context, driverID string) (*Assignment, error)
	List(ctx context.Context, f ListFilter) ([]Assignment, error)

	// HasActiveOnDay 冲突判定：服务日落在 [day, day+1) 的活跃排班中，
	// 司机匹配、或（给了车辆时）车辆匹配，且 id != excludeID。
	HasActiveOnDay(ctx context.Context, driverID string, vehicleID *string, day time.Time, excludeID string) (bool, error)
	// HasActiveForDriver / HasActiveForVehicle 台账释放前的在途判定（不限日期）。
	HasActiveForDriver(ctx context.Context, driverID, excludeID string) (bool, error)
	HasActiveForVehicle(ctx context.Context, vehicleID, excludeID string) (bool, error)

	// ActiveDriverIDsOnDay / ActiveVehicleIDsOnDay 指定服务日已被占用的实体。
	ActiveDriverIDsOnDay(ctx context.Context, day time.Time) ([]string, error)
	ActiveVehicleIDsOnDay(ctx context.Context, day time.Time) ([]string, error)
}

// ListFilter 排班查询条件。
type ListFilter struct {
	Status   Status
	DriverID string
	RouteID  string
	Day      *time.Time // 按服务日过滤
}

// DriverStore 司机可用性字段的存取。
type DriverStore interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindDriver(ctx context.Context, id string) (*user.User, error)
	BindAssignment(ctx context.Context, driverID, assignmentID string) error
	// ReleaseAssignment 仅当司机处于 assigned 时清除绑定并恢复 available。
	ReleaseAssignment(ctx context.Context, driverID string) error
	// ForceAvailable 管理员覆盖：无条件恢复 available。
	ForceAvailable(ctx context.Context, driverID string) error
	SetDutyStatus(ctx context.Context, driverID string, status user.DutyStatus) error
	ListActiveDrivers(ctx context.Context) ([]user.User, error)
}

// VehicleStore 车辆可用性字段的存取。
type VehicleStore interface {
	FindByID(ctx context.Context, id string) (*vehicle.Vehicle, error)
	BindAssignment(ctx context.Context, vehicleID, assignmentID string, day time.Time) error
	ReleaseAssignment(ctx context.Context, vehicleID string) error
	ListActive(ctx context.Context) ([]vehicle.Vehicle, error)
}

// RouteStore 线路查询。
type RouteStore interface {
	FindByID(ctx context.Context, id string) (*route.Route, error)
}

// DepotStore 车场查询。
type DepotStore interface {
	FindByID(ctx context.Context, id string) (*depot.Depot, error)
}

// NotificationStore 站内通知的已读维护（拒单/接单后清理相关提醒）。
type NotificationStore interface {
	MarkAssignmentRead(ctx context.Context, userID, assignmentID string) error
}

// Notifier 外部推送通道：只需要 call-and-forget，失败由实现方记录，
// 绝不阻塞或回滚排班操作。
type Notifier interface {
	NotifyDriverAssignment(ctx context.Context, driverID string, a *Assignment) error
}

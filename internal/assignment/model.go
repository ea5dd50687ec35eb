package assignment

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"gorm.io/gorm"

	"github.com/SmartBusLink/SmartBusLink/internal/depot"
	"github.com/SmartBusLink/SmartBusLink/internal/route"
	"github.com/SmartBusLink/SmartBusLink/internal/user"
	"github.com/SmartBusLink/SmartBusLink/internal/vehicle"
)

// Status 排班状态枚举（持久化为字符串）。
type Status string

const (
	StatusPending   Status = "pending"   // 已派单，待司机确认
	StatusAccepted  Status = "accepted"  // 司机已接受
	StatusRejected  Status = "rejected"  // 司机已拒绝（终态）
	StatusCompleted Status = "completed" // 行程结束（终态）
)

// Valid 是否为合法的状态值。
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// IsActive 活跃状态：占用司机/车辆当日档期，参与冲突判定。
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusAccepted
}

// Assignment 是 assignments 表的 GORM 模型：
// 一次排班把一名司机（可选一辆车）绑定到某条线路的某个服务日。
//
// active 列是派生标记：活跃状态时为 "1"，否则为 NULL。
// (driver_id, service_day, active) 与 (vehicle_id, service_day, active)
// 两组唯一索引在存储层兜底“同一司机/车辆同一天最多一个活跃排班”，
// MySQL 的唯一索引不约束含 NULL 的行，已结束的排班不会互相冲突。
type Assignment struct {
	ID        string  `gorm:"primaryKey;size:36" json:"id"`
	DriverID  string  `gorm:"size:36;not null;index;uniqueIndex:uniq_driver_day,priority:1" json:"driverId"`
	VehicleID *string `gorm:"size:36;index;uniqueIndex:uniq_vehicle_day,priority:1" json:"vehicleId"`
	RouteID   string  `gorm:"size:36;not null;index" json:"routeId"`
	DepotID   *string `gorm:"size:36;index" json:"depotId"`

	ServiceDay    time.Time  `gorm:"type:date;not null;index;uniqueIndex:uniq_driver_day,priority:2;uniqueIndex:uniq_vehicle_day,priority:2" json:"serviceDay"`
	ScheduledTime string     `gorm:"size:8;not null" json:"scheduledTime"` // HH:MM
	StartTime     *time.Time `json:"startTime"`
	EndTime       *time.Time `json:"endTime"`

	Status Status  `gorm:"type:varchar(16);index;not null;default:pending" json:"status"`
	Active *string `gorm:"size:1;uniqueIndex:uniq_driver_day,priority:3;uniqueIndex:uniq_vehicle_day,priority:3" json:"-"`

	DriverResponse string `gorm:"size:255" json:"driverResponse"`
	Notes          string `gorm:"size:512" json:"notes"`
	AssignedBy     string `gorm:"size:36;not null;index" json:"assignedBy"`

	AcceptedAt *time.Time `json:"acceptedAt"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Detail 带关联实体的排班视图（对外展示用）。
type Detail struct {
	Assignment
	Driver   *user.User       `json:"driver,omitempty"`
	Vehicle  *vehicle.Vehicle `json:"vehicle,omitempty"`
	Route    *route.Route     `json:"route,omitempty"`
	Depot    *depot.Depot     `json:"depot,omitempty"`
	Assigner *user.User       `json:"assigner,omitempty"`
}

// BeforeSave 维护派生字段（active 标记 / 起始时间），与业务侧的
// syncDerived 保持一致，保证绕过 service 的写入也不会破坏索引约束。
func (a *Assignment) BeforeSave(tx *gorm.DB) error {
	a.syncDerived()
	return nil
}

// syncDerived 归一化服务日、派生起始时间、刷新 active 标记。
func (a *Assignment) syncDerived() {
	if !a.ServiceDay.IsZero() {
		a.ServiceDay = NormalizeDay(a.ServiceDay)
	}
	if a.StartTime == nil && !a.ServiceDay.IsZero() && a.ScheduledTime != "" {
		if t, err := CombineDayTime(a.ServiceDay, a.ScheduledTime); err == nil {
			a.StartTime = &t
		}
	}
	if a.Status.IsActive() {
		marker := "1"
		a.Active = &marker
	} else {
		a.Active = nil
	}
}

// NormalizeDay 把时间截断到当天零点（服务日粒度）。
func NormalizeDay(t time.Time) time.Time {
	return now.New(t).BeginningOfDay()
}

// ParseClock 解析 "HH:MM" 字符串。
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}

// CombineDayTime 把服务日与 "HH:MM" 组合成当天的具体时刻。
func CombineDayTime(day time.Time, clock string) (time.Time, error) {
	h, m, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	d := NormalizeDay(day)
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, d.Location()), nil
}

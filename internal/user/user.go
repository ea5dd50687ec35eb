package user

import (
	"time"
)

// UserType 用户类型
type UserType string

const (
	TypePassenger UserType = "passenger"
	TypeDriver    UserType = "driver"
	TypeAdmin     UserType = "admin"
)

// DutyStatus 司机执勤状态（持久化为字符串）。
type DutyStatus string

const (
	DutyAvailable DutyStatus = "available" // 空闲，可接受排班
	DutyAssigned  DutyStatus = "assigned"  // 已绑定排班
	DutyOffDuty   DutyStatus = "off_duty"  // 下班（人工设置）
	DutyOnLeave   DutyStatus = "on_leave"  // 请假（人工设置）
)

// Manual 是否为人工设置的状态：available/assigned 由排班台账维护，
// off_duty/on_leave 只能由管理员设置、也只能由管理员解除。
func (s DutyStatus) Manual() bool {
	return s == DutyOffDuty || s == DutyOnLeave
}

// User 是 users 表的 GORM 模型。司机的可用性字段
// （duty_status / current_assignment_id）只允许排班台账写入。
type User struct {
	ID           string   `gorm:"primaryKey;size:36" json:"id"`
	UserType     UserType `gorm:"type:varchar(16);index;not null" json:"userType"`
	UserName     string   `gorm:"size:64;not null" json:"userName"`
	Email        string   `gorm:"uniqueIndex;size:128;not null" json:"email"`
	Phone        string   `gorm:"size:32" json:"phone"`
	PasswordHash string   `gorm:"size:128" json:"-"`
	PasswordSalt string   `gorm:"size:64" json:"-"`

	// 司机相关字段
	VehicleID           string     `gorm:"index;size:36" json:"vehicleId"`     // 常驻车辆
	HomeDepotID         string     `gorm:"index;size:36" json:"homeDepotId"`   // 所属车场
	LicenseNumber       string     `gorm:"size:64" json:"licenseNumber"`
	DutyStatus          DutyStatus `gorm:"type:varchar(16);not null;default:available" json:"dutyStatus"`
	CurrentAssignmentID string     `gorm:"index;size:36" json:"currentAssignmentId"` // 弱引用，仅用于回查

	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// IsDriver 是否为可用的司机账号。
func (u *User) IsDriver() bool {
	return u != nil && u.UserType == TypeDriver && u.IsActive
}

package vehicle

import (
	"time"
)

// VehicleType 车型
type VehicleType string

const (
	TypeStandard VehicleType = "standard"
	TypeDeluxe   VehicleType = "deluxe"
	TypeLuxury   VehicleType = "luxury"
)

// ConditionStatus 车况
type ConditionStatus string

const (
	ConditionWorkable    ConditionStatus = "workable"
	ConditionNonWorkable ConditionStatus = "non_workable"
	ConditionMaintenance ConditionStatus = "maintenance"
)

// AssignmentStatus 车辆排班占用状态，仅由排班台账写入。
type AssignmentStatus string

const (
	AssignmentAvailable AssignmentStatus = "available"
	AssignmentAssigned  AssignmentStatus = "assigned"
)

// Vehicle 是 vehicles 表的 GORM 模型。
type Vehicle struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	VehicleNumber string          `gorm:"uniqueIndex;size:32;not null" json:"vehicleNumber"`
	VehicleName   string          `gorm:"size:64;not null" json:"vehicleName"`
	DriverID      string          `gorm:"index;size:36" json:"driverId"` // 常驻司机
	DepotID       string          `gorm:"index;size:36" json:"depotId"`
	TotalSeats    int             `gorm:"not null;default:40" json:"totalSeats"`
	VehicleType   VehicleType     `gorm:"type:varchar(16);not null;default:standard" json:"vehicleType"`
	Condition     ConditionStatus `gorm:"column:condition_status;type:varchar(16);not null;default:workable" json:"conditionStatus"`

	// 排班占用（台账维护）
	AssignmentStatus      AssignmentStatus `gorm:"type:varchar(16);not null;default:available" json:"assignmentStatus"`
	CurrentAssignmentID   string           `gorm:"index;size:36" json:"currentAssignmentId"`
	CurrentAssignmentDate *time.Time       `json:"currentAssignmentDate"`

	Notes     string    `gorm:"size:255" json:"notes"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Operable 车辆是否可参与排班。
func (v *Vehicle) Operable() bool {
	return v != nil && v.IsActive && v.Condition == ConditionWorkable
}

package trip

import (
	"time"
)

// Status 行程状态。
type Status string

const (
	StatusPending   Status = "pending"
	StatusStarted   Status = "started"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Running 行程是否在途（占用司机）。
func (s Status) Running() bool {
	return s == StatusStarted || s == StatusPaused
}

// Trip 是 trips 表的 GORM 模型：司机一次实际出车的运行记录，
// 与排班通过 assignment_id 关联。
type Trip struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	DriverID     string `gorm:"size:36;not null;index" json:"driverId"`
	VehicleID    string `gorm:"size:36;index" json:"vehicleId"`
	RouteID      string `gorm:"size:36;not null;index" json:"routeId"`
	AssignmentID string `gorm:"size:36;index" json:"assignmentId"`

	Status         Status     `gorm:"type:varchar(16);not null;default:pending;index" json:"status"`
	StartTime      *time.Time `json:"startTime"`
	EndTime        *time.Time `json:"endTime"`
	PauseTime      *time.Time `json:"pauseTime"`
	ResumeTime     *time.Time `json:"resumeTime"`
	DelayReason    string     `gorm:"size:255" json:"delayReason"`
	PassengerCount int        `gorm:"not null;default:0" json:"passengerCount"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

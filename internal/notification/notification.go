package notification

import (
	"time"
)

// Type 通知类型。
type Type string

const (
	TypeAlert  Type = "Alert"
	TypeUpdate Type = "Update"
	TypeInfo   Type = "Info"
)

// Notification 是 notifications 表的 GORM 模型（站内消息）。
type Notification struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	UserID       string    `gorm:"size:36;not null;index" json:"userId"`
	Type         Type      `gorm:"type:varchar(16);not null;default:Info" json:"type"`
	Title        string    `gorm:"size:128;not null" json:"title"`
	Message      string    `gorm:"size:512;not null" json:"message"`
	IsRead       bool      `gorm:"not null;default:false;index" json:"isRead"`
	AssignmentID string    `gorm:"size:36;index" json:"assignmentId"` // 关联排班（可空）
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

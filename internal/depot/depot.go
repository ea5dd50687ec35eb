package depot

import "time"

// Depot 是 depots 表的 GORM 模型（车场）。
type Depot struct {
	ID            string `gorm:"primaryKey;size:36" json:"id"`
	Name          string `gorm:"size:64;not null" json:"name"`
	Code          string `gorm:"uniqueIndex;size:32;not null" json:"code"`
	City          string `gorm:"size:64" json:"city"`
	Address       string `gorm:"size:255" json:"address"`
	ContactNumber string `gorm:"size:32" json:"contactNumber"`
	Capacity      int    `gorm:"not null;default:0" json:"capacity"`

	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

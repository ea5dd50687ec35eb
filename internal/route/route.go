package route

import "time"

// Route 是 routes 表的 GORM 模型（线路）。
type Route struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	RouteNumber string  `gorm:"index;size:32;not null" json:"routeNumber"`
	Start       string  `gorm:"size:128;not null" json:"start"`
	Destination string  `gorm:"size:128;not null" json:"destination"`
	Departure   string  `gorm:"size:8;not null" json:"departure"` // HH:MM
	Arrival     string  `gorm:"size:8;not null" json:"arrival"`   // HH:MM
	DistanceKm  float64 `gorm:"not null;default:0" json:"distanceKm"`
	Price       int64   `gorm:"not null;default:0" json:"price"` // 单位：分

	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

package vehicle

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

// FindByID 按 id 查找车辆；不存在时返回 (nil, nil)。
func (r *Repo) FindByID(ctx context.Context, id string) (*Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var v Vehicle
	if err := db.Where("id = ?", id).First(&v).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

// BindAssignment 将车辆标记为 assigned，并记录排班与服务日（覆盖写，幂等）。
func (r *Repo) BindAssignment(ctx context.Context, vehicleID, assignmentID string, day time.Time) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Model(&Vehicle{}).
		Where("id = ?", vehicleID).
		Updates(map[string]interface{}{
			"assignment_status":       AssignmentAssigned,
			"current_assignment_id":   assignmentID,
			"current_assignment_date": day,
		}).Error
}

// ReleaseAssignment 清除车辆的排班占用，仅当其当前为 assigned。
func (r *Repo) ReleaseAssignment(ctx context.Context, vehicleID string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Model(&Vehicle{}).
		Where("id = ? AND assignment_status = ?", vehicleID, AssignmentAssigned).
		Updates(map[string]interface{}{
			"assignment_status":       AssignmentAvailable,
			"current_assignment_id":   "",
			"current_assignment_date": nil,
		}).Error
}

// ListActive 列出所有启用中的车辆。
func (r *Repo) ListActive(ctx context.Context) ([]Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var vehicles []Vehicle
	err := db.Where("is_active = ?", true).
		Order("vehicle_number ASC").
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

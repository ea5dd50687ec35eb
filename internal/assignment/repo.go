package assignment

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Repo 是 Store 的 GORM/MySQL 实现。
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

func (r *Repo) Create(ctx context.Context, a *Assignment) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(a).Error
}

func (r *Repo) Save(ctx context.Context, a *Assignment) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	// Save 全量写，连同被置 nil 的 vehicle_id / active 一起落库。
	return db.Save(a).Error
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Where("id = ?", id).Delete(&Assignment{}).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Assignment, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *Repo) FindByIDForDriver(ctx context.Context, id, driverID string) (*Assignment, error) {
	return r.findOne(ctx, "id = ? AND driver_id = ?", id, driverID)
}

func (r *Repo) FindActiveByDriver(ctx context.Context, driverID string) (*Assignment, error) {
	return r.findOne(ctx, "driver_id = ? AND status IN ?", driverID, activeStatuses())
}

func (r *Repo) findOne(ctx context.Context, query string, args ...interface{}) (*Assignment, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var a Assignment
	if err := db.Where(query, args...).First(&a).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repo) List(ctx context.Context, f ListFilter) ([]Assignment, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	q := db.Model(&Assignment{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.DriverID != "" {
		q = q.Where("driver_id = ?", f.DriverID)
	}
	if f.RouteID != "" {
		q = q.Where("route_id = ?", f.RouteID)
	}
	if f.Day != nil {
		from, to := dayRange(*f.Day)
		q = q.Where("service_day >= ? AND service_day < ?", from, to)
	}
	var out []Assignment
	if err := q.Order("service_day DESC, created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// HasActiveOnDay 冲突判定查询：半开区间 [day, day+1)，司机或车辆命中即冲突。
func (r *Repo) HasActiveOnDay(ctx context.Context, driverID string, vehicleID *string, day time.Time, excludeID string) (bool, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return false, fmt.Errorf("repo db is nil")
	}
	from, to := dayRange(day)
	q := db.Model(&Assignment{}).
		Where("service_day >= ? AND service_day < ?", from, to).
		Where("status IN ?", activeStatuses())
	if vehicleID != nil && *vehicleID != "" {
		q = q.Where("driver_id = ? OR vehicle_id = ?", driverID, *vehicleID)
	} else {
		q = q.Where("driver_id = ?", driverID)
	}
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repo) HasActiveForDriver(ctx context.Context, driverID, excludeID string) (bool, error) {
	return r.hasActive(ctx, "driver_id = ?", driverID, excludeID)
}

func (r *Repo) HasActiveForVehicle(ctx context.Context, vehicleID, excludeID string) (bool, error) {
	return r.hasActive(ctx, "vehicle_id = ?", vehicleID, excludeID)
}

func (r *Repo) hasActive(ctx context.Context, cond, id, excludeID string) (bool, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return false, fmt.Errorf("repo db is nil")
	}
	q := db.Model(&Assignment{}).Where(cond, id).Where("status IN ?", activeStatuses())
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repo) ActiveDriverIDsOnDay(ctx context.Context, day time.Time) ([]string, error) {
	return r.activeColumnOnDay(ctx, "driver_id", day)
}

func (r *Repo) ActiveVehicleIDsOnDay(ctx context.Context, day time.Time) ([]string, error) {
	return r.activeColumnOnDay(ctx, "vehicle_id", day)
}

func (r *Repo) activeColumnOnDay(ctx context.Context, column string, day time.Time) ([]string, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	from, to := dayRange(day)
	var ids []string
	err := db.Model(&Assignment{}).
		Where("service_day >= ? AND service_day < ?", from, to).
		Where("status IN ?", activeStatuses()).
		Where(column + " IS NOT NULL").
		Distinct().
		Pluck(column, &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func activeStatuses() []Status {
	return []Status{StatusPending, StatusAccepted}
}

// dayRange 服务日的半开区间 [当天零点, 次日零点)。
func dayRange(day time.Time) (time.Time, time.Time) {
	from := NormalizeDay(day)
	return from, from.AddDate(0, 0, 1)
}

package user

import (
	"context"
	"fmt"

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

// FindByID 按 id 查找用户；不存在时返回 (nil, nil)。
func (r *Repo) FindByID(ctx context.Context, id string) (*User, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var u User
	if err := db.Where("id = ?", id).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// FindDriver 按 id 查找司机账号；不存在或非司机时返回 (nil, nil)。
func (r *Repo) FindDriver(ctx context.Context, id string) (*User, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var u User
	err := db.Where("id = ? AND user_type = ?", id, TypeDriver).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// BindAssignment 将司机标记为 assigned 并记录当前排班（覆盖写，天然幂等）。
func (r *Repo) BindAssignment(ctx context.Context, driverID, assignmentID string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Model(&User{}).
		Where("id = ?", driverID).
		Updates(map[string]interface{}{
			"current_assignment_id": assignmentID,
			"duty_status":           DutyAssigned,
		}).Error
}

// ReleaseAssignment 清除司机的排班绑定，但仅当其当前状态为 assigned：
// 人工设置的 off_duty / on_leave 不能被释放动作覆盖。
func (r *Repo) ReleaseAssignment(ctx context.Context, driverID string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Model(&User{}).
		Where("id = ? AND duty_status = ?", driverID, DutyAssigned).
		Updates(map[string]interface{}{
			"current_assignment_id": "",
			"duty_status":           DutyAvailable,
		}).Error
}

// ForceAvailable 管理员强制恢复可用（跳过 assigned 条件判断）。
func (r *Repo) ForceAvailable(ctx context.Context, driverID string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Model(&User{}).
		Where("id = ?", driverID).
		Updates(map[string]interface{}{
			"current_assignment_id": "",
			"duty_status":           DutyAvailable,
		}).Error
}

// SetDutyStatus 管理员设置执勤状态；非 available 状态同时清除排班回查引用。
func (r *Repo) SetDutyStatus(ctx context.Context, driverID string, status DutyStatus) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	updates := map[string]interface{}{"duty_status": status}
	if status != DutyAvailable {
		updates["current_assignment_id"] = ""
	}
	return db.Model(&User{}).
		Where("id = ? AND user_type = ?", driverID, TypeDriver).
		Updates(updates).Error
}

// ListActiveDrivers 列出所有启用中的司机。
func (r *Repo) ListActiveDrivers(ctx context.Context) ([]User, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var drivers []User
	err := db.Where("user_type = ? AND is_active = ?", TypeDriver, true).
		Order("user_name ASC").
		Find(&drivers).Error
	if err != nil {
		return nil, err
	}
	return drivers, nil
}

// FindByEmail 登录用：按邮箱查找；不存在时返回 (nil, nil)。
func (r *Repo) FindByEmail(ctx context.Context, email string) (*User, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var u User
	if err := db.Where("email = ?", email).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Create 新建账号。
func (r *Repo) Create(ctx context.Context, u *User) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(u).Error
}

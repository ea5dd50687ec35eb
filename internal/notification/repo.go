package notification

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

func (r *Repo) Create(ctx context.Context, n *Notification) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(n).Error
}

// ListUnread 用户未读通知（新到旧）。
func (r *Repo) ListUnread(ctx context.Context, userID string) ([]Notification, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var out []Notification
	err := db.Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead 单条已读。
func (r *Repo) MarkRead(ctx context.Context, userID, id string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error
}

// MarkAssignmentRead 把与某排班相关的通知全部置为已读（司机响应后清理提醒）。
func (r *Repo) MarkAssignmentRead(ctx context.Context, userID, assignmentID string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Model(&Notification{}).
		Where("user_id = ? AND assignment_id = ? AND is_read = ?", userID, assignmentID, false).
		Update("is_read", true).Error
}

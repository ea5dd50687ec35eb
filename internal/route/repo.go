package route

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

// FindByID 按 id 查找线路；不存在时返回 (nil, nil)。
func (r *Repo) FindByID(ctx context.Context, id string) (*Route, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var rt Route
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rt).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rt, nil
}

// List 列出线路（可按启用状态过滤）。
func (r *Repo) List(ctx context.Context, onlyActive bool) ([]Route, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	q := r.db.WithContext(ctx).Model(&Route{})
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	var routes []Route
	if err := q.Order("route_number ASC").Find(&routes).Error; err != nil {
		return nil, err
	}
	return routes, nil
}

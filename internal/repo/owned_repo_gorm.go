package repo

import (
	"context"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-office-rental/internal/domain"
)

// 任何 patch 都不允许改动的列
var protectedCols = []string{"id", "user_id", "owner_id", "created_at"}

// OwnedRepo 通用的"按所属用户"仓储：写操作始终同时匹配 id 与 owner 列
type OwnedRepo[T any, P domain.Owned[T]] struct {
	db       *gorm.DB
	ownerCol string
	orderBy  string
}

func NewOwnedRepo[T any, P domain.Owned[T]](db *gorm.DB, ownerCol, orderBy string) *OwnedRepo[T, P] {
	return &OwnedRepo[T, P]{db: db, ownerCol: ownerCol, orderBy: orderBy}
}

func (r *OwnedRepo[T, P]) ownerEq(owner string) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: r.ownerCol}, Value: owner}
}

func (r *OwnedRepo[T, P]) Create(ctx context.Context, m P) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *OwnedRepo[T, P]) FindByID(ctx context.Context, id string) (P, error) {
	var m P = new(T)
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(m).Error; err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func (r *OwnedRepo[T, P]) ListByOwner(ctx context.Context, owner string, offset, limit int) ([]T, int64, error) {
	return r.List(ctx, map[string]any{r.ownerCol: owner}, offset, limit)
}

// List conds 为空表示全表
func (r *OwnedRepo[T, P]) List(ctx context.Context, conds map[string]any, offset, limit int) ([]T, int64, error) {
	q := r.db.WithContext(ctx).Model(new(T))
	if len(conds) > 0 {
		q = q.Where(conds)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := make([]T, 0)
	if err := q.Order(r.orderBy).Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdateOwned 单条条件更新（id AND owner），只写 cols 中列出的字段，返回受影响行数
func (r *OwnedRepo[T, P]) UpdateOwned(ctx context.Context, id, owner string, m P, cols ...string) (int64, error) {
	cols = slices.DeleteFunc(slices.Clone(cols), func(c string) bool {
		return slices.Contains(protectedCols, c)
	})
	if len(cols) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(new(T)).
		Where("id = ?", id).Where(r.ownerEq(owner)).
		Select(cols).Updates(m)
	return res.RowsAffected, res.Error
}

func (r *OwnedRepo[T, P]) DeleteOwned(ctx context.Context, id, owner string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).Where(r.ownerEq(owner)).
		Delete(new(T))
	return res.RowsAffected, res.Error
}

// DeleteByOwner 用户注销时清理其名下记录
func (r *OwnedRepo[T, P]) DeleteByOwner(ctx context.Context, owner string) error {
	return r.db.WithContext(ctx).Where(r.ownerEq(owner)).Delete(new(T)).Error
}

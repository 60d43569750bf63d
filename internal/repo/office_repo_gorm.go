package repo

import (
	"context"

	"gorm.io/gorm"

	"go-office-rental/internal/domain"
)

type OfficeRepo struct {
	*OwnedRepo[domain.Office, *domain.Office]
	db *gorm.DB
}

func NewOfficeRepo(db *gorm.DB) *OfficeRepo {
	return &OfficeRepo{
		OwnedRepo: NewOwnedRepo[domain.Office](db, "owner_id", "created_at DESC"),
		db:        db,
	}
}

// MarkRented 仅当当前仍为 available 时才翻转为 rented，返回是否抢到
func (r *OfficeRepo) MarkRented(ctx context.Context, officeID, renterID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Office{}).
		Where("id = ? AND rental_status = ?", officeID, domain.StatusAvailable).
		Updates(map[string]any{
			"rental_status": domain.StatusRented,
			"renter_id":     renterID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

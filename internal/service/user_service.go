package service

import (
	"context"
	"fmt"

	"go-office-rental/internal/domain"
	"go-office-rental/internal/repo"
	"go-office-rental/pkg/utils"
)

type UserService struct {
	store *repo.Store
}

func NewUserService(store *repo.Store) *UserService { return &UserService{store: store} }

// Resolve 鉴权中间件用：token 中的 uid → 调用者身份
func (s *UserService) Resolve(ctx context.Context, uid string) (*domain.Caller, error) {
	u, err := s.store.Users.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return domain.CallerOf(u), nil
}

func (s *UserService) Me(ctx context.Context, callerID string) (*domain.User, error) {
	return s.store.Users.FindByID(ctx, callerID)
}

type UserPatch struct {
	Name        *string
	PhoneNumber *string
	ProfilePic  *string
	Password    *string
}

func (s *UserService) UpdateMe(ctx context.Context, callerID string, p UserPatch) (*domain.User, error) {
	patch := map[string]any{}
	if p.Name != nil {
		patch["name"] = *p.Name
	}
	if p.PhoneNumber != nil {
		patch["phone_number"] = *p.PhoneNumber
	}
	if p.ProfilePic != nil {
		patch["profile_pic"] = *p.ProfilePic
	}
	if p.Password != nil {
		h, err := utils.HashPassword(*p.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		patch["password_hash"] = h
	}
	if err := s.store.Users.Update(ctx, callerID, patch); err != nil {
		return nil, err
	}
	return s.store.Users.FindByID(ctx, callerID)
}

// DeleteMe 名下有已出租办公室时拒绝；其余个人记录随账户一并删除，支付记录保留
func (s *UserService) DeleteMe(ctx context.Context, callerID string) error {
	return s.store.InTx(ctx, func(tx *repo.Store) error {
		var rented int64
		if err := tx.DB().WithContext(ctx).Model(&domain.Office{}).
			Where("owner_id = ? AND rental_status = ?", callerID, domain.StatusRented).
			Count(&rented).Error; err != nil {
			return err
		}
		if rented > 0 {
			return fmt.Errorf("%w: account owns rented offices", domain.ErrConflict)
		}
		if err := tx.Offices.DeleteByOwner(ctx, callerID); err != nil {
			return err
		}
		if err := tx.Credentials.DeleteByOwner(ctx, callerID); err != nil {
			return err
		}
		if err := tx.Feedback.DeleteByOwner(ctx, callerID); err != nil {
			return err
		}
		if err := tx.Notifications.DeleteByOwner(ctx, callerID); err != nil {
			return err
		}
		return tx.Users.Delete(ctx, callerID)
	})
}

package service

import (
	"fmt"

	"go-office-rental/internal/domain"
	"go-office-rental/pkg/utils"
)

// Authorize 归属校验：资源的所属用户必须就是调用者。
// 不区分"存在但不属于你"与"无权限"，统一返回 ErrForbidden。
func Authorize(callerID, ownerID string) error {
	if callerID == "" || callerID != ownerID {
		return domain.ErrForbidden
	}
	return nil
}

// CheckID 在触达存储之前拒绝格式错误的标识
func CheckID(kind, id string) error {
	if !utils.IsValidID(id) {
		return fmt.Errorf("%w: invalid %s id", domain.ErrInvalidID, kind)
	}
	return nil
}

type Page struct {
	Page int
	Size int
}

func (p Page) Normalize() Page {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Size <= 0 || p.Size > 100 {
		p.Size = 20
	}
	return p
}

func (p Page) Offset() int { return (p.Page - 1) * p.Size }

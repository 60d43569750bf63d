package service

import (
	"context"
	"errors"
	"fmt"

	"go-office-rental/internal/domain"
	"go-office-rental/internal/repo"
	"go-office-rental/pkg/utils"
)

// OwnedService 按用户归属的通用 CRUD：创建时写入调用者，读写前做归属校验
type OwnedService[T any, P domain.Owned[T]] struct {
	repo *repo.OwnedRepo[T, P]
	kind string
}

func NewOwnedService[T any, P domain.Owned[T]](r *repo.OwnedRepo[T, P], kind string) *OwnedService[T, P] {
	return &OwnedService[T, P]{repo: r, kind: kind}
}

func (s *OwnedService[T, P]) notFound() error {
	return fmt.Errorf("%s %w", s.kind, domain.ErrNotFound)
}

// Create 无论入参里带了什么，owner 一律取调用者
func (s *OwnedService[T, P]) Create(ctx context.Context, callerID string, m P) (P, error) {
	if callerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	m.Stamp(utils.NewID(), callerID)
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create %s: %w", s.kind, err)
	}
	return m, nil
}

func (s *OwnedService[T, P]) List(ctx context.Context, callerID string, p Page) ([]T, int64, error) {
	p = p.Normalize()
	return s.repo.ListByOwner(ctx, callerID, p.Offset(), p.Size)
}

// Find 只做标识校验 + 查询，不做归属校验（公开资源用）
func (s *OwnedService[T, P]) Find(ctx context.Context, id string) (P, error) {
	if err := CheckID(s.kind, id); err != nil {
		return nil, err
	}
	m, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, s.notFound()
	}
	return m, err
}

func (s *OwnedService[T, P]) Get(ctx context.Context, callerID, id string) (P, error) {
	m, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(callerID, m.OwnerRef()); err != nil {
		return nil, err
	}
	return m, nil
}

// Update 先 Get（标识 + 存在 + 归属），再以 id AND owner 做原子条件更新
func (s *OwnedService[T, P]) Update(ctx context.Context, callerID, id string, patch P, cols ...string) (P, error) {
	if _, err := s.Get(ctx, callerID, id); err != nil {
		return nil, err
	}
	n, err := s.repo.UpdateOwned(ctx, id, callerID, patch, cols...)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", s.kind, err)
	}
	if n == 0 {
		// 0 行：值未变化，或在校验后被删除
		return s.Get(ctx, callerID, id)
	}
	return s.repo.FindByID(ctx, id)
}

func (s *OwnedService[T, P]) Delete(ctx context.Context, callerID, id string) error {
	if _, err := s.Get(ctx, callerID, id); err != nil {
		return err
	}
	n, err := s.repo.DeleteOwned(ctx, id, callerID)
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.kind, err)
	}
	if n == 0 {
		return s.notFound()
	}
	return nil
}

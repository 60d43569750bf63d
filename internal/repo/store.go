package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"go-office-rental/internal/domain"
)

type (
	CredentialsRepo  = OwnedRepo[domain.Credentials, *domain.Credentials]
	FeedbackRepo     = OwnedRepo[domain.Feedback, *domain.Feedback]
	NotificationRepo = OwnedRepo[domain.Notification, *domain.Notification]
	PaymentRepo      = OwnedRepo[domain.Payment, *domain.Payment]
)

// Store 聚合所有仓储；InTx 内拿到的是绑定同一事务的副本
type Store struct {
	db *gorm.DB

	Users         *UserRepo
	Offices       *OfficeRepo
	Credentials   *CredentialsRepo
	Feedback      *FeedbackRepo
	Notifications *NotificationRepo
	Payments      *PaymentRepo
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepo(db),
		Offices:       NewOfficeRepo(db),
		Credentials:   NewOwnedRepo[domain.Credentials](db, "user_id", "created_at DESC"),
		Feedback:      NewOwnedRepo[domain.Feedback](db, "user_id", "created_at DESC"),
		Notifications: NewOwnedRepo[domain.Notification](db, "user_id", "timestamp DESC"),
		Payments:      NewOwnedRepo[domain.Payment](db, "user_id", "created_at DESC"),
	}
}

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 驱动未开启错误翻译时的兜底
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

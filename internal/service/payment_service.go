package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"go-office-rental/internal/core/alert"
	"go-office-rental/internal/core/billing"
	"go-office-rental/internal/domain"
	"go-office-rental/internal/repo"
	"go-office-rental/pkg/utils"
)

// 远端意向已创建后，本地提交使用独立的有界上下文，客户端断开不影响
const commitTimeout = 15 * time.Second

type PaymentService struct {
	store     *repo.Store
	gateway   billing.Gateway
	offices   *OfficeService
	alert     alert.Reporter
	records   *OwnedService[domain.Payment, *domain.Payment]
	currency  string
	txRetries uint64
	log       *zap.Logger
}

func NewPaymentService(store *repo.Store, gw billing.Gateway, offices *OfficeService, a alert.Reporter, currency string, l *zap.Logger) *PaymentService {
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{
		store:     store,
		gateway:   gw,
		offices:   offices,
		alert:     a,
		records:   NewOwnedService(store.Payments, "payment"),
		currency:  strings.ToLower(currency),
		txRetries: 3,
		log:       l.Named("payment"),
	}
}

func (s *PaymentService) RegisterBillingCustomer(ctx context.Context, name, email string) (string, error) {
	id, err := s.gateway.CreateCustomer(ctx, name, email)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("%w: empty customer reference", domain.ErrRemoteService)
	}
	return id, nil
}

type Charge struct {
	ClientSecret string `json:"clientSecret"` // 支付意向 ID，客户端用它确认
	PaymentID    string `json:"paymentId"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// InitiateRentalPayment 校验 → 创建远端意向 → 事务内条件翻转 rented + 落支付记录 → 返回句柄
func (s *PaymentService) InitiateRentalPayment(ctx context.Context, caller *domain.Caller, officeID string) (*Charge, error) {
	if err := CheckID("office", officeID); err != nil {
		return nil, err
	}
	if caller.BillingCustomerID == "" {
		return nil, fmt.Errorf("%w: account has no billing customer", domain.ErrValidation)
	}
	office, err := s.store.Offices.FindByID(ctx, officeID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("office %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	// 已出租的直接拒绝，不产生远端意向
	if office.RentalStatus != domain.StatusAvailable {
		paymentsTotal.WithLabelValues("conflict").Inc()
		return nil, domain.ErrAlreadyRented
	}
	amount := office.MonthlyCharge()
	if amount <= 0 {
		return nil, fmt.Errorf("%w: office has no chargeable monthly rate", domain.ErrValidation)
	}

	fields := []zap.Field{
		zap.String("office_id", office.ID),
		zap.String("user_id", caller.ID),
		zap.Int64("amount", amount),
		zap.String("currency", s.currency),
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, billing.IntentRequest{
		CustomerID:     caller.BillingCustomerID,
		Amount:         amount,
		Currency:       s.currency,
		IdempotencyKey: "rent:" + office.ID + ":" + caller.ID,
		Metadata:       map[string]string{"office_id": office.ID, "user_id": caller.ID},
	})
	if err != nil {
		paymentsTotal.WithLabelValues("remote_error").Inc()
		s.log.Warn("create payment intent failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	fields = append(fields, zap.String("intent_id", intent.ID))

	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
	defer cancel()

	pay := &domain.Payment{
		OfficeID: office.ID,
		Amount:   amount,
		Currency: s.currency,
		Method:   domain.PaymentMethodCard,
		IntentID: intent.ID,
	}
	pay.Stamp(utils.NewID(), caller.ID)

	err = s.commitRental(commitCtx, office, caller, pay)
	switch {
	case errors.Is(err, domain.ErrAlreadyRented):
		// 并发竞争失败：这笔意向尚未确认，取消即可
		paymentsTotal.WithLabelValues("conflict").Inc()
		if cerr := s.gateway.CancelPaymentIntent(commitCtx, intent.ID); cerr != nil {
			s.alert.Reconcile(commitCtx, "orphan payment intent could not be cancelled", append(fields, zap.Error(cerr))...)
		} else {
			s.log.Info("lost rent race, intent cancelled", fields...)
		}
		return nil, domain.ErrAlreadyRented
	case err != nil:
		// 远端意向已存在：不自动回滚，交给对账
		paymentsTotal.WithLabelValues("reconcile").Inc()
		s.alert.Reconcile(commitCtx, "payment intent created but rental not recorded", append(fields, zap.Error(err))...)
		return nil, fmt.Errorf("record rental for intent %s: %w", intent.ID, err)
	}

	s.offices.Invalidate(commitCtx, office.ID)
	paymentsTotal.WithLabelValues("ok").Inc()
	s.log.Info("rental payment initiated", fields...)
	return &Charge{ClientSecret: intent.ID, PaymentID: pay.ID, Amount: amount, Currency: s.currency}, nil
}

// commitRental 条件翻转 + 支付记录 + 通知在同一事务；瞬时错误有界重试
func (s *PaymentService) commitRental(ctx context.Context, office *domain.Office, caller *domain.Caller, pay *domain.Payment) error {
	op := func() error {
		err := s.store.InTx(ctx, func(tx *repo.Store) error {
			ok, err := tx.Offices.MarkRented(ctx, office.ID, caller.ID)
			if err != nil {
				return err
			}
			if !ok {
				// 上一次尝试可能已提交但返回了错误
				_, n, err := tx.Payments.List(ctx, map[string]any{"intent_id": pay.IntentID}, 0, 1)
				if err != nil {
					return err
				}
				if n > 0 {
					return nil
				}
				return domain.ErrAlreadyRented
			}
			if err := tx.Payments.Create(ctx, pay); err != nil {
				return err
			}
			now := time.Now()
			notes := []struct{ to, content string }{
				{office.OwnerID, fmt.Sprintf("%s started a rent payment for %s", caller.Email, office.BuildingName)},
				{caller.ID, fmt.Sprintf("Your rent payment for %s was initiated", office.BuildingName)},
			}
			for _, nt := range notes {
				n := &domain.Notification{
					Content:   nt.content,
					Status:    domain.NotificationDelivered,
					Type:      domain.NotifyPaymentReceived,
					Timestamp: now,
				}
				n.Stamp(utils.NewID(), nt.to)
				if err := tx.Notifications.Create(ctx, n); err != nil {
					return err
				}
			}
			return nil
		})
		if errors.Is(err, domain.ErrAlreadyRented) {
			return backoff.Permanent(err)
		}
		return err
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	return backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(b, s.txRetries), ctx),
		func(err error, d time.Duration) {
			s.log.Warn("retrying rental commit", zap.String("office_id", office.ID), zap.Duration("after", d), zap.Error(err))
		})
}

// ConfirmPayment 仅转发，确认状态完全由支付处理方维护
func (s *PaymentService) ConfirmPayment(ctx context.Context, intentID, paymentMethodID string) (*billing.Intent, error) {
	if strings.TrimSpace(intentID) == "" || strings.TrimSpace(paymentMethodID) == "" {
		return nil, fmt.Errorf("%w: clientSecret and paymentMethodId are required", domain.ErrValidation)
	}
	return s.gateway.ConfirmPaymentIntent(ctx, intentID, paymentMethodID)
}

func (s *PaymentService) CreatePaymentMethod(ctx context.Context, card billing.Card) (string, error) {
	return s.gateway.CreatePaymentMethod(ctx, card)
}

func (s *PaymentService) List(ctx context.Context, callerID string, p Page) ([]domain.Payment, int64, error) {
	return s.records.List(ctx, callerID, p)
}

func (s *PaymentService) Get(ctx context.Context, callerID, id string) (*domain.Payment, error) {
	return s.records.Get(ctx, callerID, id)
}

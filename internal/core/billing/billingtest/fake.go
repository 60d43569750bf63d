// Package billingtest 提供内存版 billing.Gateway，供各层测试使用。
package billingtest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go-office-rental/internal/core/billing"
	"go-office-rental/internal/domain"
)

type Fake struct {
	mu sync.Mutex

	Customers []string
	Intents   map[string]billing.IntentRequest
	Cancelled []string
	Confirmed []string
	Methods   []billing.Card

	// 置位后对应调用返回 ErrRemoteService
	FailCustomer bool
	FailIntent   bool
	FailConfirm  bool

	// 在 CreatePaymentIntent 返回前调用，用于制造并发窗口
	BeforeIntentReturn func()

	seq int
}

func New() *Fake { return &Fake{Intents: map[string]billing.IntentRequest{}} }

func (f *Fake) next(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s_%d", prefix, f.seq)
}

func (f *Fake) CreateCustomer(_ context.Context, name, email string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailCustomer {
		return "", fmt.Errorf("%w: customer rejected", domain.ErrRemoteService)
	}
	id := f.next("cus")
	f.Customers = append(f.Customers, id)
	return id, nil
}

func (f *Fake) CreatePaymentIntent(_ context.Context, req billing.IntentRequest) (*billing.Intent, error) {
	f.mu.Lock()
	if f.FailIntent {
		f.mu.Unlock()
		return nil, fmt.Errorf("%w: intent rejected", domain.ErrRemoteService)
	}
	id := f.next("pi")
	f.Intents[id] = req
	hook := f.BeforeIntentReturn
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return &billing.Intent{ID: id, ClientSecret: id + "_secret", Status: "requires_payment_method",
		Amount: req.Amount, Currency: req.Currency}, nil
}

func (f *Fake) ConfirmPaymentIntent(_ context.Context, intentID, paymentMethodID string) (*billing.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailConfirm {
		return nil, fmt.Errorf("%w: card declined", domain.ErrRemoteService)
	}
	req, ok := f.Intents[intentID]
	if !ok {
		return nil, fmt.Errorf("%w: no such payment_intent", domain.ErrRemoteService)
	}
	f.Confirmed = append(f.Confirmed, intentID)
	raw, _ := json.Marshal(map[string]any{
		"id": intentID, "status": "succeeded", "amount": req.Amount,
		"currency": req.Currency, "payment_method": paymentMethodID,
	})
	return &billing.Intent{ID: intentID, Status: "succeeded", Amount: req.Amount, Currency: req.Currency, Raw: raw}, nil
}

func (f *Fake) CancelPaymentIntent(_ context.Context, intentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Cancelled = append(f.Cancelled, intentID)
	return nil
}

func (f *Fake) CreatePaymentMethod(_ context.Context, card billing.Card) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Methods = append(f.Methods, card)
	return f.next("pm"), nil
}

func (f *Fake) IntentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Intents)
}

func (f *Fake) CancelledCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Cancelled)
}

var _ billing.Gateway = (*Fake)(nil)

// Package billing 封装远程支付处理方（客户、支付意向、支付方式）。
package billing

import (
	"context"
	"encoding/json"
)

type IntentRequest struct {
	CustomerID     string
	Amount         int64 // 最小货币单位
	Currency       string
	IdempotencyKey string
	Metadata       map[string]string
}

type Intent struct {
	ID           string          `json:"id"`
	ClientSecret string          `json:"client_secret,omitempty"`
	Status       string          `json:"status"`
	Amount       int64           `json:"amount"`
	Currency     string          `json:"currency"`
	Raw          json.RawMessage `json:"-"` // 处理方原始响应，确认接口原样透传
}

type Card struct {
	Number   string
	ExpMonth int64
	ExpYear  int64
	CVC      string
}

// Gateway 进程内只构造一次，作为只读依赖注入
type Gateway interface {
	CreateCustomer(ctx context.Context, name, email string) (string, error)
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	ConfirmPaymentIntent(ctx context.Context, intentID, paymentMethodID string) (*Intent, error)
	CancelPaymentIntent(ctx context.Context, intentID string) error
	CreatePaymentMethod(ctx context.Context, card Card) (string, error)
}

package billing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.uber.org/zap"

	"go-office-rental/internal/domain"
)

type Stripe struct {
	api     *client.API
	retries uint64
	log     *zap.Logger
}

func NewStripe(secretKey string, retries uint64, l *zap.Logger) *Stripe {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &Stripe{api: sc, retries: retries, log: l.Named("stripe")}
}

func (s *Stripe) CreateCustomer(ctx context.Context, name, email string) (string, error) {
	p := &stripe.CustomerParams{Name: stripe.String(name), Email: stripe.String(email)}
	p.Context = ctx
	c, err := s.api.Customers.New(p)
	if err != nil {
		return "", remoteErr("create customer", err)
	}
	return c.ID, nil
}

// CreatePaymentIntent 带幂等键时才重试，避免重复扣款
func (s *Stripe) CreatePaymentIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	var pi *stripe.PaymentIntent
	op := func() error {
		p := &stripe.PaymentIntentParams{
			Amount:   stripe.Int64(req.Amount),
			Currency: stripe.String(req.Currency),
			Customer: stripe.String(req.CustomerID),
			AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
				Enabled: stripe.Bool(true),
			},
		}
		for k, v := range req.Metadata {
			p.AddMetadata(k, v)
		}
		p.Context = ctx
		if req.IdempotencyKey != "" {
			p.SetIdempotencyKey(req.IdempotencyKey)
		}
		var err error
		pi, err = s.api.PaymentIntents.New(p)
		return classify(err)
	}
	retries := s.retries
	if req.IdempotencyKey == "" {
		retries = 0
	}
	if err := s.retry(ctx, retries, "create intent", op); err != nil {
		return nil, remoteErr("create payment intent", err)
	}
	return toIntent(pi), nil
}

func (s *Stripe) ConfirmPaymentIntent(ctx context.Context, intentID, paymentMethodID string) (*Intent, error) {
	var pi *stripe.PaymentIntent
	op := func() error {
		p := &stripe.PaymentIntentConfirmParams{PaymentMethod: stripe.String(paymentMethodID)}
		p.Context = ctx
		var err error
		pi, err = s.api.PaymentIntents.Confirm(intentID, p)
		return classify(err)
	}
	if err := s.retry(ctx, s.retries, "confirm intent", op); err != nil {
		return nil, remoteErr("confirm payment intent", err)
	}
	return toIntent(pi), nil
}

func (s *Stripe) CancelPaymentIntent(ctx context.Context, intentID string) error {
	p := &stripe.PaymentIntentCancelParams{}
	p.Context = ctx
	if _, err := s.api.PaymentIntents.Cancel(intentID, p); err != nil {
		return remoteErr("cancel payment intent", err)
	}
	return nil
}

func (s *Stripe) CreatePaymentMethod(ctx context.Context, card Card) (string, error) {
	p := &stripe.PaymentMethodParams{
		Type: stripe.String(string(stripe.PaymentMethodTypeCard)),
		Card: &stripe.PaymentMethodCardParams{
			Number:   stripe.String(card.Number),
			ExpMonth: stripe.Int64(card.ExpMonth),
			ExpYear:  stripe.Int64(card.ExpYear),
			CVC:      stripe.String(card.CVC),
		},
	}
	p.Context = ctx
	pm, err := s.api.PaymentMethods.New(p)
	if err != nil {
		return "", remoteErr("create payment method", err)
	}
	return pm.ID, nil
}

func (s *Stripe) retry(ctx context.Context, retries uint64, what string, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = 10 * time.Second
	return backoff.RetryNotify(op,
		backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx),
		func(err error, d time.Duration) {
			s.log.Warn("retrying", zap.String("op", what), zap.Duration("after", d), zap.Error(err))
		})
}

// classify 4xx（429 除外）属于请求本身的问题，不重试
func classify(err error) error {
	if err == nil {
		return nil
	}
	var se *stripe.Error
	if errors.As(err, &se) && se.HTTPStatusCode > 0 && se.HTTPStatusCode < 500 &&
		se.HTTPStatusCode != http.StatusTooManyRequests {
		return backoff.Permanent(err)
	}
	return err
}

func remoteErr(op string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return fmt.Errorf("%w: %s: %s", domain.ErrRemoteService, op, se.Msg)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrRemoteService, op, err)
}

func toIntent(pi *stripe.PaymentIntent) *Intent {
	in := &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}
	if pi.LastResponse != nil {
		in.Raw = pi.LastResponse.RawJSON
	}
	return in
}

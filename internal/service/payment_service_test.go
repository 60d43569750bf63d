package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-office-rental/internal/core/billing"
	"go-office-rental/internal/domain"
	"go-office-rental/pkg/utils"
)

type recordingReporter struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recordingReporter) Reconcile(_ context.Context, msg string, _ ...zap.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func TestInitiateRentalPayment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, domain.RoleOwner)
	renter := e.user(t, domain.RoleRenter)
	o := e.office(t, owner, 1500.5)

	ch, err := e.payments.InitiateRentalPayment(ctx, renter, o.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, ch.ClientSecret)
	assert.Equal(t, int64(150050), ch.Amount)
	assert.Equal(t, "usd", ch.Currency)

	req := e.gw.Intents[ch.ClientSecret]
	assert.Equal(t, renter.BillingCustomerID, req.CustomerID)
	assert.Equal(t, int64(150050), req.Amount)
	assert.Equal(t, "rent:"+o.ID+":"+renter.ID, req.IdempotencyKey)

	got, err := e.offices.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRented, got.RentalStatus)
	require.NotNil(t, got.RenterID)
	assert.Equal(t, renter.ID, *got.RenterID)

	pays, total, err := e.payments.List(ctx, renter.ID, Page{})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, ch.ClientSecret, pays[0].IntentID)
	assert.Equal(t, domain.PaymentMethodCard, pays[0].Method)

	p, err := e.payments.Get(ctx, renter.ID, ch.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, p.OfficeID)
	_, err = e.payments.Get(ctx, owner.ID, ch.PaymentID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	for _, who := range []*domain.Caller{owner, renter} {
		notes, n, err := e.store.Notifications.ListByOwner(ctx, who.ID, 0, 10)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)
		assert.Equal(t, domain.NotifyPaymentReceived, notes[0].Type)
		assert.Equal(t, domain.NotificationDelivered, notes[0].Status)
	}
	assert.Zero(t, e.gw.CancelledCount())
}

func TestRentAlreadyRentedCreatesNoIntent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, domain.RoleOwner)
	o := e.office(t, owner, 900)

	_, err := e.payments.InitiateRentalPayment(ctx, e.user(t, domain.RoleRenter), o.ID)
	require.NoError(t, err)
	require.Equal(t, 1, e.gw.IntentCount())

	_, err = e.payments.InitiateRentalPayment(ctx, e.user(t, domain.RoleRenter), o.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, e.gw.IntentCount())
}

func TestRentValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	renter := e.user(t, domain.RoleRenter)

	_, err := e.payments.InitiateRentalPayment(ctx, renter, "not-an-id")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = e.payments.InitiateRentalPayment(ctx, renter, utils.NewID())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	free := e.office(t, e.user(t, domain.RoleOwner), 0)
	_, err = e.payments.InitiateRentalPayment(ctx, renter, free.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	noCustomer := *renter
	noCustomer.BillingCustomerID = ""
	o := e.office(t, e.user(t, domain.RoleOwner), 100)
	_, err = e.payments.InitiateRentalPayment(ctx, &noCustomer, o.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Zero(t, e.gw.IntentCount())
}

func TestRentRemoteFailureLeavesOfficeAvailable(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.office(t, e.user(t, domain.RoleOwner), 700)
	e.gw.FailIntent = true

	_, err := e.payments.InitiateRentalPayment(ctx, e.user(t, domain.RoleRenter), o.ID)
	assert.ErrorIs(t, err, domain.ErrRemoteService)

	got, err := e.offices.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, got.RentalStatus)
	assert.Nil(t, got.RenterID)
	_, n, err := e.store.Payments.List(ctx, nil, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestConcurrentRentExactlyOneWinner(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.office(t, e.user(t, domain.RoleOwner), 1200)
	renters := []*domain.Caller{e.user(t, domain.RoleRenter), e.user(t, domain.RoleRenter)}

	// 两个请求都通过前置检查并拿到远端意向后才开始提交
	var barrier sync.WaitGroup
	barrier.Add(len(renters))
	e.gw.BeforeIntentReturn = func() {
		barrier.Done()
		barrier.Wait()
	}

	errs := make([]error, len(renters))
	var wg sync.WaitGroup
	for i, r := range renters {
		wg.Add(1)
		go func(i int, r *domain.Caller) {
			defer wg.Done()
			_, errs[i] = e.payments.InitiateRentalPayment(ctx, r, o.ID)
		}(i, r)
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		default:
			assert.ErrorIs(t, err, domain.ErrAlreadyRented)
			conflict++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflict)
	assert.Equal(t, 2, e.gw.IntentCount())
	assert.Equal(t, 1, e.gw.CancelledCount())

	_, n, err := e.store.Payments.List(ctx, map[string]any{"office_id": o.ID}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := e.store.Offices.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRented, got.RentalStatus)
}

func TestCommitFailureRaisesReconcileAlert(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.office(t, e.user(t, domain.RoleOwner), 500)
	renter := e.user(t, domain.RoleRenter)

	rep := &recordingReporter{}
	svc := NewPaymentService(e.store, e.gw, e.offices, rep, "usd", zap.NewNop())
	sqlDB, err := e.store.DB().DB()
	require.NoError(t, err)
	e.gw.BeforeIntentReturn = func() { _ = sqlDB.Close() }

	_, err = svc.InitiateRentalPayment(ctx, renter, o.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, rep.msgs, 1)
	assert.Zero(t, e.gw.CancelledCount())
}

func TestConfirmPaymentForwards(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.office(t, e.user(t, domain.RoleOwner), 300)
	ch, err := e.payments.InitiateRentalPayment(ctx, e.user(t, domain.RoleRenter), o.ID)
	require.NoError(t, err)

	pm, err := e.payments.CreatePaymentMethod(ctx, billing.Card{Number: "4242424242424242", ExpMonth: 12, ExpYear: 2030, CVC: "123"})
	require.NoError(t, err)

	in, err := e.payments.ConfirmPayment(ctx, ch.ClientSecret, pm)
	require.NoError(t, err)
	assert.Equal(t, "succeeded", in.Status)
	assert.JSONEq(t, `{"id":"`+ch.ClientSecret+`","status":"succeeded","amount":30000,"currency":"usd","payment_method":"`+pm+`"}`, string(in.Raw))

	_, err = e.payments.ConfirmPayment(ctx, "", pm)
	assert.ErrorIs(t, err, domain.ErrValidation)

	e.gw.FailConfirm = true
	_, err = e.payments.ConfirmPayment(ctx, ch.ClientSecret, pm)
	assert.ErrorIs(t, err, domain.ErrRemoteService)
}

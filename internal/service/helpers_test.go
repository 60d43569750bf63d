package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-office-rental/internal/core/alert"
	"go-office-rental/internal/core/billing/billingtest"
	"go-office-rental/internal/domain"
	"go-office-rental/internal/repo"
	"go-office-rental/internal/repo/repotest"
	"go-office-rental/pkg/utils"
)

type staticTokens struct{}

func (staticTokens) Issue(uid string) (string, error) { return "tok-" + uid, nil }

type env struct {
	store    *repo.Store
	gw       *billingtest.Fake
	offices  *OfficeService
	payments *PaymentService
	auth     *AuthService
	users    *UserService
}

func newEnv(t *testing.T, opts ...OfficeOption) *env {
	t.Helper()
	l := zap.NewNop()
	store := repo.NewStore(repotest.NewDB(t))
	gw := billingtest.New()
	a, _, err := alert.New(l, "", "test")
	require.NoError(t, err)
	offices := NewOfficeService(store, l, opts...)
	payments := NewPaymentService(store, gw, offices, a, "usd", l)
	return &env{
		store:    store,
		gw:       gw,
		offices:  offices,
		payments: payments,
		auth:     NewAuthService(store, staticTokens{}, payments, l),
		users:    NewUserService(store),
	}
}

func (e *env) user(t *testing.T, role string) *domain.Caller {
	t.Helper()
	u := &domain.User{
		ID: utils.NewID(), Email: utils.NewID() + "@example.com", Name: role,
		PasswordHash: "x", Role: role, BillingCustomerID: "cus_" + role,
	}
	require.NoError(t, e.store.Users.Create(context.Background(), u))
	return domain.CallerOf(u)
}

func newOffice(rate float64) *domain.Office {
	return &domain.Office{
		BuildingName: "Arfa Tower", BuildingSize: 250, MonthlyRate: rate,
		Images: []string{"1.jpg", "2.jpg", "3.jpg"}, Address: "Ferozepur Rd",
		Latitude: 31.47, Longitude: 74.34, OfficeTypes: []string{"co working desk"},
	}
}

func (e *env) office(t *testing.T, owner *domain.Caller, rate float64) *domain.Office {
	t.Helper()
	o, err := e.offices.Create(context.Background(), owner.ID, newOffice(rate))
	require.NoError(t, err)
	return o
}

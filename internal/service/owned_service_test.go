package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-office-rental/internal/domain"
	"go-office-rental/internal/repo"
	"go-office-rental/internal/repo/repotest"
	"go-office-rental/pkg/utils"
)

func newCredentialsService(t *testing.T) (*OwnedService[domain.Credentials, *domain.Credentials], *repo.Store) {
	store := repo.NewStore(repotest.NewDB(t))
	return NewOwnedService(store.Credentials, "credentials"), store
}

func card() *domain.Credentials {
	return &domain.Credentials{CardNumber: "4242424242424242", CardholderName: "A B", ExpiryDate: "2030-01", SecurityCode: "123"}
}

func TestCreateStampsCaller(t *testing.T) {
	svc, _ := newCredentialsService(t)
	ctx := context.Background()

	in := card()
	in.UserID = "someone-else"
	in.ID = "client-chosen"
	got, err := svc.Create(ctx, "caller-1", in)
	require.NoError(t, err)
	assert.Equal(t, "caller-1", got.UserID)
	assert.True(t, utils.IsValidID(got.ID))

	stored, err := svc.Get(ctx, "caller-1", got.ID)
	require.NoError(t, err)
	assert.Equal(t, "caller-1", stored.UserID)
}

func TestNonOwnerCannotReadUpdateDelete(t *testing.T) {
	svc, _ := newCredentialsService(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, "owner", card())
	require.NoError(t, err)

	_, err = svc.Get(ctx, "intruder", c.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Update(ctx, "intruder", c.ID, &domain.Credentials{CardholderName: "X"}, "cardholder_name")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = svc.Delete(ctx, "intruder", c.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, err := svc.Get(ctx, "owner", c.ID)
	require.NoError(t, err)
	assert.Equal(t, "A B", stored.CardholderName)
}

func TestForbiddenMessageDoesNotLeakExistence(t *testing.T) {
	svc, _ := newCredentialsService(t)
	c, err := svc.Create(context.Background(), "owner", card())
	require.NoError(t, err)
	_, err = svc.Get(context.Background(), "intruder", c.ID)
	require.Error(t, err)
	assert.Equal(t, domain.ErrForbidden.Error(), err.Error())
}

func TestOwnerUpdateAndDelete(t *testing.T) {
	svc, _ := newCredentialsService(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, "owner", card())
	require.NoError(t, err)

	up, err := svc.Update(ctx, "owner", c.ID, &domain.Credentials{CardholderName: "New Name", UserID: "hijack"},
		"cardholder_name", "user_id")
	require.NoError(t, err)
	assert.Equal(t, "New Name", up.CardholderName)
	assert.Equal(t, "owner", up.UserID)

	require.NoError(t, svc.Delete(ctx, "owner", c.ID))
	_, err = svc.Get(ctx, "owner", c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "owner", c.ID), domain.ErrNotFound)
}

func TestMalformedIDRejectedBeforeStorage(t *testing.T) {
	svc, store := newCredentialsService(t)
	sqlDB, err := store.DB().DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close()) // 任何存储访问都会报错

	for _, id := range []string{"", "abc", "64b7f0c2e4b0a1a2b3c4d5e6", "../etc"} {
		_, err := svc.Get(context.Background(), "owner", id)
		assert.ErrorIs(t, err, domain.ErrInvalidID, id)
		_, err = svc.Update(context.Background(), "owner", id, card(), "cardholder_name")
		assert.ErrorIs(t, err, domain.ErrInvalidID, id)
		assert.ErrorIs(t, svc.Delete(context.Background(), "owner", id), domain.ErrInvalidID, id)
	}
}

func TestUnknownIDNotFound(t *testing.T) {
	svc, _ := newCredentialsService(t)
	_, err := svc.Get(context.Background(), "owner", utils.NewID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListScopedToCaller(t *testing.T) {
	svc, _ := newCredentialsService(t)
	ctx := context.Background()
	for _, owner := range []string{"a", "a", "b"} {
		_, err := svc.Create(ctx, owner, card())
		require.NoError(t, err)
	}
	items, total, err := svc.List(ctx, "a", Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, Authorize("u1", "u1"))
	assert.ErrorIs(t, Authorize("u1", "u2"), domain.ErrForbidden)
	assert.ErrorIs(t, Authorize("", ""), domain.ErrForbidden)
}

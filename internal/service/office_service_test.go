package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-office-rental/internal/core/cache"
	"go-office-rental/internal/core/storage"
	"go-office-rental/internal/domain"
)

type memUploader struct{ objects map[string][]byte }

func (m *memUploader) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.objects[key] = b
	return "https://cdn.test/" + key, nil
}

func upload(name, ct, body string) Upload {
	return Upload{Filename: name, Size: int64(len(body)), ContentType: ct, Open: func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(body)), nil
	}}
}

func TestOfficeCreateIgnoresClientStatus(t *testing.T) {
	e := newEnv(t)
	owner := e.user(t, domain.RoleOwner)
	in := newOffice(100)
	in.RentalStatus = domain.StatusRented
	renter := "x"
	in.RenterID = &renter
	in.OwnerID = "someone"

	o, err := e.offices.Create(context.Background(), owner.ID, in)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, o.RentalStatus)
	assert.Nil(t, o.RenterID)
	assert.Equal(t, owner.ID, o.OwnerID)
}

func TestOfficeUpdateCannotTouchRentalState(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, domain.RoleOwner)
	o := e.office(t, owner, 100)

	up, err := e.offices.Update(ctx, owner.ID, o.ID,
		&domain.Office{MonthlyRate: 250, RentalStatus: domain.StatusRented, Images: []string{"a", "b", "c", "d"}},
		"monthly_rate", "rental_status", "images")
	require.NoError(t, err)
	assert.Equal(t, 250.0, up.MonthlyRate)
	assert.Equal(t, domain.StatusAvailable, up.RentalStatus)
	assert.Equal(t, []string{"a", "b", "c", "d"}, up.Images)

	other := e.user(t, domain.RoleOwner)
	_, err = e.offices.Update(ctx, other.ID, o.ID, &domain.Office{MonthlyRate: 1}, "monthly_rate")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, e.offices.Delete(ctx, other.ID, o.ID), domain.ErrForbidden)

	got, err := e.offices.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 250.0, got.MonthlyRate)
}

func TestOfficeBrowseFiltersByStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, domain.RoleOwner)
	a := e.office(t, owner, 100)
	e.office(t, owner, 200)
	ok, err := e.store.Offices.MarkRented(ctx, a.ID, e.user(t, domain.RoleRenter).ID)
	require.NoError(t, err)
	require.True(t, ok)

	all, n, err := e.offices.Browse(ctx, "", Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Len(t, all, 2)

	avail, n, err := e.offices.Browse(ctx, domain.StatusAvailable, Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NotEqual(t, a.ID, avail[0].ID)

	mine, n, err := e.offices.ListMine(ctx, owner.ID, Page{Page: 2, Size: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Len(t, mine, 1)
}

func TestOfficeGetCachedAndInvalidated(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	e := newEnv(t, WithCache(c, time.Minute))
	ctx := context.Background()
	owner := e.user(t, domain.RoleOwner)
	o := e.office(t, owner, 100)

	_, err := e.offices.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists("office:"+o.ID))

	_, err = e.offices.Update(ctx, owner.ID, o.ID, &domain.Office{BuildingName: "Renamed"}, "building_name")
	require.NoError(t, err)
	assert.False(t, mr.Exists("office:"+o.ID))
	got, err := e.offices.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.BuildingName)

	_, err = e.payments.InitiateRentalPayment(ctx, e.user(t, domain.RoleRenter), o.ID)
	require.NoError(t, err)
	got, err = e.offices.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRented, got.RentalStatus)
}

func TestUploadImages(t *testing.T) {
	e := newEnv(t)
	_, err := e.offices.UploadImages(context.Background(), "u1", []Upload{upload("a.png", "image/png", "x")})
	assert.ErrorIs(t, err, storage.ErrDisabled)

	up := &memUploader{objects: map[string][]byte{}}
	e = newEnv(t, WithUploader(up))
	urls, err := e.offices.UploadImages(context.Background(), "u1", []Upload{
		upload("a.png", "image/png", "png-bytes"),
		upload("b.jpg", "image/jpeg", "jpg-bytes"),
	})
	require.NoError(t, err)
	require.Len(t, urls, 2)
	assert.True(t, strings.HasPrefix(urls[0], "https://cdn.test/offices/u1/"))
	assert.True(t, strings.HasSuffix(urls[1], ".jpg"))
	var total int
	for _, b := range up.objects {
		total += len(b)
	}
	assert.Equal(t, len("png-bytes")+len("jpg-bytes"), total)

	_, err = e.offices.UploadImages(context.Background(), "u1", []Upload{upload("x.txt", "text/plain", "no")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

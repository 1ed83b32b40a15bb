package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikerent/bikerent-api/internal/cache"
)

// mapCache is an in-process cache.Cache.
type mapCache struct {
	data map[string][]byte
	gets int
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	c.gets++
	v, ok := c.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}

	return v, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func TestCatalogService_GetBikeReadsThrough(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := &mapCache{data: map[string][]byte{}}
	s := NewCatalogService(e.bikes, e.manufacturers, e.usages, e.galleries, c, time.Minute)
	b := e.bike(t, "Enduro", 500)

	got, err := s.GetBike(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Specialized Enduro", got.FullName())
	assert.Contains(t, c.data, bikeCacheKey(b.ID))

	cached, err := s.GetBike(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Name, cached.Name)
	assert.Equal(t, got.Price, cached.Price)

	require.NoError(t, s.DeleteBike(ctx, b.ID))
	assert.NotContains(t, c.data, bikeCacheKey(b.ID))

	_, err = s.GetBike(ctx, b.ID)
	assert.ErrorIs(t, err, ErrBikeNotFound)
}

func TestCatalogService_FilterFallsBackPerField(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := e.catalog()
	cart, _ := newCart(t, e)
	e.bike(t, "Enduro", 500)

	from, to := date("2024-06-01"), date("2024-06-04")
	require.NoError(t, cart.SetDateRange(&from, &to))

	res, err := s.Filter(ctx, FilterInput{FromDate: "2024-06-02", ToDate: "garbage"}, cart)
	require.NoError(t, err)

	assert.Equal(t, DateRange{From: "2024-06-02", To: "2024-06-04"}, res.DateRange)
	assert.Len(t, res.Bikes, 1)
}

func TestCatalogService_FilterByFields(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := e.catalog()
	cart, _ := newCart(t, e)
	b := e.bike(t, "Enduro", 500)

	res, err := s.Filter(ctx, FilterInput{WheelSizes: []string{"27.5"}}, cart)
	require.NoError(t, err)
	assert.Empty(t, res.Bikes)

	res, err = s.Filter(ctx, FilterInput{WheelSizes: []string{"29"}, UsageIDs: []uint{b.UsageID}}, cart)
	require.NoError(t, err)
	assert.Len(t, res.Bikes, 1)
}

func TestCatalogService_CreateBikeDefaultsTravel(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := e.catalog()
	m, err := e.manufacturers.Create(ctx, "Santa Cruz")
	require.NoError(t, err)
	u, err := e.usages.Create(ctx, "Downhill")
	require.NoError(t, err)

	b, err := s.CreateBike(ctx, BikeInput{
		ManufacturerID: m.ID,
		Name:           "V10",
		UsageID:        u.ID,
		FrameMaterial:  "Carbon",
		FrameSize:      "M",
		WheelSize:      "29",
		Speeds:         "7",
		Price:          900,
	})
	require.NoError(t, err)
	require.NotNil(t, b.ForkTravel)
	require.NotNil(t, b.ShockTravel)
	assert.Equal(t, 0, *b.ForkTravel)
	assert.Equal(t, 0, *b.ShockTravel)

	opts, err := s.FilterOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"29"}, opts.WheelSizes)
	assert.Equal(t, []string{"M"}, opts.FrameSizes)
	assert.Len(t, opts.Usages, 1)
}

func TestCatalogService_CreateBikeRejectsInvalidInput(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := e.catalog()
	m, err := e.manufacturers.Create(ctx, "Santa Cruz")
	require.NoError(t, err)
	u, err := e.usages.Create(ctx, "Downhill")
	require.NoError(t, err)

	_, err = s.CreateBike(ctx, BikeInput{ManufacturerID: m.ID, UsageID: u.ID, FrameMaterial: "Steel", Name: "V10"})
	assert.ErrorIs(t, err, ErrInvalidBike)

	_, err = s.CreateBike(ctx, BikeInput{ManufacturerID: m.ID + 10, UsageID: u.ID, FrameMaterial: "Al", Name: "V10"})
	assert.ErrorIs(t, err, ErrManufacturerNotFound)

	_, err = s.CreateBike(ctx, BikeInput{ManufacturerID: m.ID, UsageID: u.ID, FrameMaterial: "Al", Name: "V10", Price: -1})
	assert.ErrorIs(t, err, ErrInvalidBike)
}

func TestCatalogService_DeleteMissingBike(t *testing.T) {
	e := newEnv(t)

	assert.NoError(t, e.catalog().DeleteBike(context.Background(), 999))
}

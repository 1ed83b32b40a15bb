package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikerent/bikerent-api/internal/domain"
)

func TestBikeRepository_CreateHydratesReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.galleries.Create(ctx, "front", "/img/gallery/front.png")
	require.NoError(t, err)

	b := f.bike(t, "Process", 500, `27,5"`, `19"`)
	b.GalleryID = &g.ID
	b.Price = 650

	updated, err := f.bikes.Update(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, 650, updated.Price)
	assert.Equal(t, "Kona Process", updated.FullName())
	require.NotNil(t, updated.Usage)
	assert.Equal(t, "Enduro", updated.Usage.Name)
	require.NotNil(t, updated.Gallery)
	assert.Equal(t, "/img/gallery/front.png", updated.Gallery.URL)
	assert.Equal(t, b.CreatedAt.Unix(), updated.CreatedAt.Unix())

	_, err = f.bikes.Update(ctx, domain.Bike{ID: 999, ManufacturerID: b.ManufacturerID, UsageID: b.UsageID})
	assert.ErrorIs(t, err, ErrBikeNotFound)
}

func TestBikeRepository_Find(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.bike(t, "A", 100, `26"`, `17"`)
	b := f.bike(t, "B", 100, `27,5"`, `17"`)
	c := f.bike(t, "C", 100, `27,5"`, `19"`)

	tests := []struct {
		name   string
		filter domain.BikeFilter
		want   []uint
	}{
		{name: "no filter", filter: domain.BikeFilter{}, want: []uint{a.ID, b.ID, c.ID}},
		{name: "one wheel size", filter: domain.BikeFilter{WheelSizes: []string{`27,5"`}}, want: []uint{b.ID, c.ID}},
		{name: "in per field", filter: domain.BikeFilter{FrameSizes: []string{`17"`, `19"`}}, want: []uint{a.ID, b.ID, c.ID}},
		{name: "and across fields", filter: domain.BikeFilter{WheelSizes: []string{`27,5"`}, FrameSizes: []string{`17"`}}, want: []uint{b.ID}},
		{name: "usage", filter: domain.BikeFilter{UsageIDs: []uint{a.UsageID}, FrameSizes: []string{`19"`}}, want: []uint{c.ID}},
		{name: "nothing matches", filter: domain.BikeFilter{UsageIDs: []uint{999}}, want: []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bikes, err := f.bikes.Find(ctx, tt.filter)
			require.NoError(t, err)

			ids := []uint{}
			for _, bike := range bikes {
				ids = append(ids, bike.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestBikeRepository_DistinctSizesAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.bike(t, "A", 100, `26"`, `17"`)
	f.bike(t, "B", 100, `27,5"`, `17"`)

	wheels, err := f.bikes.DistinctWheelSizes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{`26"`, `27,5"`}, wheels)

	frames, err := f.bikes.DistinctFrameSizes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{`17"`}, frames)

	require.NoError(t, f.bikes.Delete(ctx, a.ID))
	require.NoError(t, f.bikes.Delete(ctx, a.ID))

	_, err = f.bikes.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrBikeNotFound)

	found, err := f.bikes.FindByIDs(ctx, []uint{a.ID})
	require.NoError(t, err)
	assert.Empty(t, found)
}

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManufacturerRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.manufacturers.Create(ctx, "Trek")
	require.NoError(t, err)

	_, err = f.manufacturers.Create(ctx, "Trek")
	assert.ErrorIs(t, err, ErrManufacturerNameExists)

	all, err := f.manufacturers.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	renamed, err := f.manufacturers.Rename(ctx, m.ID, "Trek Bicycle")
	require.NoError(t, err)
	assert.Equal(t, "Trek Bicycle", renamed.Name)

	_, err = f.manufacturers.Rename(ctx, 999, "Nope")
	assert.ErrorIs(t, err, ErrManufacturerNotFound)

	require.NoError(t, f.manufacturers.Delete(ctx, m.ID))
	require.NoError(t, f.manufacturers.Delete(ctx, 999))
}

func TestManufacturerRepository_DeleteReferenced(t *testing.T) {
	f := newFixture(t)

	b := f.bike(t, "Process", 500, `29"`, `19"`)

	err := f.manufacturers.Delete(context.Background(), b.ManufacturerID)
	assert.ErrorIs(t, err, ErrReferenced)
}

func TestUsageRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.usages.Create(ctx, "Downhill")
	require.NoError(t, err)

	_, err = f.usages.Create(ctx, "Downhill")
	assert.ErrorIs(t, err, ErrUsageNameExists)

	found, err := f.usages.FindByName(ctx, "Downhill")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	require.NoError(t, f.usages.Delete(ctx, u.ID))
	_, err = f.usages.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrUsageNotFound)
}

func TestGalleryRepository_DeleteClearsBikeReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.galleries.Create(ctx, "side", "/img/gallery/side.png")
	require.NoError(t, err)

	b := f.bike(t, "Process", 500, `29"`, `19"`)
	b.GalleryID = &g.ID
	_, err = f.bikes.Update(ctx, b)
	require.NoError(t, err)

	updated, err := f.galleries.Update(ctx, g.ID, "side view", "")
	require.NoError(t, err)
	assert.Equal(t, "side view", updated.Name)
	assert.Equal(t, "/img/gallery/side.png", updated.URL)

	require.NoError(t, f.galleries.Delete(ctx, g.ID))

	found, err := f.bikes.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, found.GalleryID)
	assert.Nil(t, found.Gallery)
}

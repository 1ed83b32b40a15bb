package service

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/pkg/imagestore"
)

func TestManufacturerService_DuplicateName(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := NewManufacturerService(e.manufacturers)

	kona, err := s.Create(ctx, "Kona")
	require.NoError(t, err)
	trek, err := s.Create(ctx, "Trek")
	require.NoError(t, err)

	_, err = s.Create(ctx, "Kona")
	var dup *domain.DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "manufacturer", dup.Entity)

	_, err = s.Rename(ctx, trek.ID, "Kona")
	assert.ErrorAs(t, err, &dup)

	renamed, err := s.Rename(ctx, kona.ID, "Kona")
	require.NoError(t, err)
	assert.Equal(t, "Kona", renamed.Name)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestManufacturerService_DeleteReferenced(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := NewManufacturerService(e.manufacturers)
	b := e.bike(t, "Enduro", 500)

	err := s.Delete(ctx, b.ManufacturerID)
	assert.ErrorIs(t, err, ErrReferenced)

	assert.NoError(t, s.Delete(ctx, 999))

	_, err = s.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrManufacturerNotFound)
}

func TestUsageService_Lifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := NewUsageService(e.usages)

	u, err := s.Create(ctx, "Gravel")
	require.NoError(t, err)

	_, err = s.Create(ctx, "Gravel")
	var dup *domain.DuplicateNameError
	assert.ErrorAs(t, err, &dup)

	u, err = s.Rename(ctx, u.ID, "Road")
	require.NoError(t, err)
	assert.Equal(t, "Road", u.Name)

	require.NoError(t, s.Delete(ctx, u.ID))
	_, err = s.Get(ctx, u.ID)
	assert.ErrorIs(t, err, ErrUsageNotFound)
}

func pngReader(t *testing.T) *bytes.Reader {
	t.Helper()

	img := imaging.New(320, 200, color.NRGBA{R: 20, G: 120, B: 60, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))

	return bytes.NewReader(buf.Bytes())
}

func TestGalleryService_Lifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	root := t.TempDir()
	s := NewGalleryService(e.galleries, imagestore.New(root), nil)

	_, err := s.Create(ctx, "Summer", nil)
	assert.ErrorIs(t, err, ErrImageRequired)

	g, err := s.Create(ctx, "Summer", pngReader(t))
	require.NoError(t, err)
	first := filepath.Join(root, "gallery", filepath.Base(g.URL))
	assert.FileExists(t, first)

	g, err = s.Update(ctx, g.ID, "Summer 2024", nil)
	require.NoError(t, err)
	assert.Equal(t, "Summer 2024", g.Name)
	assert.FileExists(t, first)

	g, err = s.Update(ctx, g.ID, "Summer 2024", pngReader(t))
	require.NoError(t, err)
	second := filepath.Join(root, "gallery", filepath.Base(g.URL))
	assert.FileExists(t, second)
	assert.NoFileExists(t, first)

	b := e.bike(t, "Enduro", 500)
	b.GalleryID = &g.ID
	_, err = e.bikes.Update(ctx, b)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, g.ID))
	_, err = os.Stat(second)
	assert.True(t, os.IsNotExist(err))

	reloaded, err := e.bikes.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.GalleryID)

	assert.NoError(t, s.Delete(ctx, g.ID))
}

func TestGalleryService_EvictsCachedBikes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := &mapCache{data: map[string][]byte{}}
	catalog := NewCatalogService(e.bikes, e.manufacturers, e.usages, e.galleries, c, time.Minute)
	s := NewGalleryService(e.galleries, imagestore.New(t.TempDir()), catalog)

	g, err := s.Create(ctx, "Summer", pngReader(t))
	require.NoError(t, err)
	b := e.bike(t, "Enduro", 500)
	b.GalleryID = &g.ID
	_, err = e.bikes.Update(ctx, b)
	require.NoError(t, err)
	other := e.bike(t, "Stumpjumper", 450)

	_, err = catalog.GetBike(ctx, b.ID)
	require.NoError(t, err)
	_, err = catalog.GetBike(ctx, other.ID)
	require.NoError(t, err)
	require.Contains(t, c.data, bikeCacheKey(b.ID))

	g, err = s.Update(ctx, g.ID, "Summer", pngReader(t))
	require.NoError(t, err)
	assert.NotContains(t, c.data, bikeCacheKey(b.ID))
	assert.Contains(t, c.data, bikeCacheKey(other.ID))

	got, err := catalog.GetBike(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Gallery)
	assert.Equal(t, g.URL, got.Gallery.URL)

	require.NoError(t, s.Delete(ctx, g.ID))
	assert.NotContains(t, c.data, bikeCacheKey(b.ID))
	assert.Contains(t, c.data, bikeCacheKey(other.ID))

	got, err = catalog.GetBike(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GalleryID)
}

func TestGalleryService_RejectsGarbage(t *testing.T) {
	e := newEnv(t)
	s := NewGalleryService(e.galleries, imagestore.New(t.TempDir()), nil)

	_, err := s.Create(context.Background(), "Broken", bytes.NewReader([]byte("not an image")))
	assert.ErrorIs(t, err, ErrInvalidImage)

	all, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

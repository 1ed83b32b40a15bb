package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bikerent/bikerent-api/internal/db/dbtest"
	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/repository/dao"
)

type fixture struct {
	db            *gorm.DB
	users         *UserRepository
	manufacturers *ManufacturerRepository
	usages        *UsageRepository
	galleries     *GalleryRepository
	bikes         *BikeRepository
	reservations  *ReservationRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gdb := dbtest.NewSQLite(t)
	bikeDAO := dao.NewBikeDAO(gdb)

	return &fixture{
		db:            gdb,
		users:         NewUserRepository(dao.NewUserDAO(gdb)),
		manufacturers: NewManufacturerRepository(dao.NewManufacturerDAO(gdb)),
		usages:        NewUsageRepository(dao.NewUsageDAO(gdb)),
		galleries:     NewGalleryRepository(dao.NewGalleryDAO(gdb)),
		bikes:         NewBikeRepository(bikeDAO),
		reservations:  NewReservationRepository(dao.NewReservationDAO(gdb), bikeDAO),
	}
}

func (f *fixture) user(t *testing.T, email string) domain.User {
	t.Helper()

	u, err := f.users.Create(context.Background(), domain.User{
		FirstName:    "Eva",
		LastName:     "Svobodova",
		Email:        email,
		PasswordHash: "hash",
		Role:         domain.RoleCustomer,
		State:        domain.UserStateActivated,
	})
	require.NoError(t, err)

	return u
}

func (f *fixture) bike(t *testing.T, name string, price int, wheel, frame string) domain.Bike {
	t.Helper()
	ctx := context.Background()

	m, err := f.manufacturers.FindByName(ctx, "Kona")
	if err != nil {
		m, err = f.manufacturers.Create(ctx, "Kona")
		require.NoError(t, err)
	}
	u, err := f.usages.FindByName(ctx, "Enduro")
	if err != nil {
		u, err = f.usages.Create(ctx, "Enduro")
		require.NoError(t, err)
	}

	b, err := f.bikes.Create(ctx, domain.Bike{
		ManufacturerID: m.ID,
		Name:           name,
		UsageID:        u.ID,
		FrameMaterial:  domain.FrameAluminium,
		FrameSize:      frame,
		WheelSize:      wheel,
		Speeds:         "12",
		Price:          price,
	})
	require.NoError(t, err)

	return b
}

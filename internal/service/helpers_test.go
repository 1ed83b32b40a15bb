package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bikerent/bikerent-api/internal/db/dbtest"
	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/repository"
	"github.com/bikerent/bikerent-api/internal/repository/dao"
)

type env struct {
	db            *gorm.DB
	users         *repository.UserRepository
	manufacturers *repository.ManufacturerRepository
	usages        *repository.UsageRepository
	galleries     *repository.GalleryRepository
	bikes         *repository.BikeRepository
	reservations  *repository.ReservationRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()

	gdb := dbtest.NewSQLite(t)
	bikeDAO := dao.NewBikeDAO(gdb)

	return &env{
		db:            gdb,
		users:         repository.NewUserRepository(dao.NewUserDAO(gdb)),
		manufacturers: repository.NewManufacturerRepository(dao.NewManufacturerDAO(gdb)),
		usages:        repository.NewUsageRepository(dao.NewUsageDAO(gdb)),
		galleries:     repository.NewGalleryRepository(dao.NewGalleryDAO(gdb)),
		bikes:         repository.NewBikeRepository(bikeDAO),
		reservations:  repository.NewReservationRepository(dao.NewReservationDAO(gdb), bikeDAO),
	}
}

func (e *env) catalog() *CatalogService {
	return NewCatalogService(e.bikes, e.manufacturers, e.usages, e.galleries, nil, time.Minute)
}

func (e *env) user(t *testing.T, email string, role domain.Role, state domain.UserState) domain.User {
	t.Helper()

	hash, err := hashPassword("secret123")
	require.NoError(t, err)

	u, err := e.users.Create(context.Background(), domain.User{
		FirstName:    "Jan",
		LastName:     "Novak",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		State:        state,
	})
	require.NoError(t, err)

	return u
}

func (e *env) bike(t *testing.T, name string, price int) domain.Bike {
	t.Helper()
	ctx := context.Background()

	m, err := e.manufacturers.FindByName(ctx, "Specialized")
	if err != nil {
		m, err = e.manufacturers.Create(ctx, "Specialized")
		require.NoError(t, err)
	}
	u, err := e.usages.FindByName(ctx, "Trail")
	if err != nil {
		u, err = e.usages.Create(ctx, "Trail")
		require.NoError(t, err)
	}

	b, err := e.bikes.Create(ctx, domain.Bike{
		ManufacturerID: m.ID,
		Name:           name,
		UsageID:        u.ID,
		FrameMaterial:  domain.FrameCarbon,
		FrameSize:      "L",
		WheelSize:      "29",
		Speeds:         "12",
		Price:          price,
	})
	require.NoError(t, err)

	return b
}

// memorySession stands in for a cookie session.
type memorySession struct {
	values map[interface{}]interface{}
	saves  int
}

func newMemorySession() *memorySession {
	return &memorySession{values: map[interface{}]interface{}{}}
}

func (s *memorySession) Get(key interface{}) interface{} { return s.values[key] }

func (s *memorySession) Set(key interface{}, val interface{}) { s.values[key] = val }

func (s *memorySession) Delete(key interface{}) { delete(s.values, key) }

func (s *memorySession) Save() error {
	s.saves++
	return nil
}

type recordingMailer struct {
	mu    sync.Mutex
	sent  []Mail
	calls chan struct{}
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{calls: make(chan struct{}, 16)}
}

func (m *recordingMailer) Send(_ context.Context, msg Mail) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	m.calls <- struct{}{}

	return nil
}

func (m *recordingMailer) wait(t *testing.T) Mail {
	t.Helper()

	select {
	case <-m.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("no mail sent")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sent[len(m.sent)-1]
}

type recordingNotifier struct {
	reservations []domain.Reservation
	customers    []domain.User
	resets       []string
}

func (n *recordingNotifier) ReservationCreated(res domain.Reservation, customer domain.User) {
	n.reservations = append(n.reservations, res)
	n.customers = append(n.customers, customer)
}

func (n *recordingNotifier) PasswordResetRequested(_ domain.User, token string) {
	n.resets = append(n.resets, token)
}

type countingMetrics struct {
	channels []string
}

func (m *countingMetrics) ReservationCreated(channel string) {
	m.channels = append(m.channels, channel)
}

func date(s string) time.Time {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}

	return d
}

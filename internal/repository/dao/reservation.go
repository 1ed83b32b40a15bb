package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrReservationNotFound = errors.New("reservation not found")

type Reservation struct {
	ID uint `gorm:"primaryKey"`

	CustomerID  uint `gorm:"not null;index"`
	Customer    User `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
	CreatedByID uint `gorm:"not null;index"`
	CreatedBy   User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT"`

	FromDate time.Time `gorm:"not null"`
	ToDate   time.Time `gorm:"not null"`
	State    int       `gorm:"not null;index"`
	Price    int       `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ReservationBike is one row of a reservation's bike set.
type ReservationBike struct {
	ReservationID uint        `gorm:"primaryKey"`
	Reservation   Reservation `gorm:"constraint:OnDelete:CASCADE"`
	BikeID        uint        `gorm:"primaryKey;index"`
	Bike          Bike        `gorm:"constraint:OnDelete:CASCADE"`
}

type ReservationQuery struct {
	CustomerID *uint
	State      *int
}

type ReservationDAO struct {
	db *gorm.DB
}

func NewReservationDAO(db *gorm.DB) *ReservationDAO {
	return &ReservationDAO{
		db: db,
	}
}

func (d *ReservationDAO) withUsers(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).Preload("Customer").Preload("CreatedBy")
}

// Insert stores the reservation and its bike set in one transaction.
func (d *ReservationDAO) Insert(ctx context.Context, r Reservation, bikeIDs []uint) (Reservation, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&r).Error; err != nil {
			return err
		}

		return insertBikeRows(tx, r.ID, bikeIDs)
	})
	if err != nil {
		return Reservation{}, err
	}

	return d.FindByID(ctx, r.ID)
}

// Update replaces every editable column and the bike set in one transaction.
func (d *ReservationDAO) Update(ctx context.Context, r Reservation, bikeIDs []uint) (Reservation, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Reservation{ID: r.ID}).
			Select("customer_id", "created_by_id", "from_date", "to_date", "state", "price").
			Updates(&r)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrReservationNotFound
		}

		if err := tx.Where("reservation_id = ?", r.ID).Delete(&ReservationBike{}).Error; err != nil {
			return err
		}

		return insertBikeRows(tx, r.ID, bikeIDs)
	})
	if err != nil {
		return Reservation{}, err
	}

	return d.FindByID(ctx, r.ID)
}

func insertBikeRows(tx *gorm.DB, reservationID uint, bikeIDs []uint) error {
	if len(bikeIDs) == 0 {
		return nil
	}

	rows := make([]ReservationBike, 0, len(bikeIDs))
	for _, id := range bikeIDs {
		rows = append(rows, ReservationBike{ReservationID: reservationID, BikeID: id})
	}

	return tx.Omit(clause.Associations).Create(&rows).Error
}

func (d *ReservationDAO) UpdateState(ctx context.Context, id uint, state int) error {
	result := d.db.WithContext(ctx).Model(&Reservation{ID: id}).Update("state", state)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

func (d *ReservationDAO) FindByID(ctx context.Context, id uint) (Reservation, error) {
	var r Reservation

	if err := d.withUsers(ctx).First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Reservation{}, ErrReservationNotFound
		}

		return Reservation{}, err
	}

	return r, nil
}

func (d *ReservationDAO) Find(ctx context.Context, q ReservationQuery) ([]Reservation, error) {
	tx := d.withUsers(ctx)
	if q.CustomerID != nil {
		tx = tx.Where("customer_id = ?", *q.CustomerID)
	}
	if q.State != nil {
		tx = tx.Where("state = ?", *q.State)
	}

	var rs []Reservation
	if err := tx.Order("from_date DESC, id DESC").Find(&rs).Error; err != nil {
		return nil, err
	}

	return rs, nil
}

// FindBikeIDs loads the bike sets of the given reservations in one query.
func (d *ReservationDAO) FindBikeIDs(ctx context.Context, reservationIDs []uint) (map[uint][]uint, error) {
	sets := make(map[uint][]uint, len(reservationIDs))
	if len(reservationIDs) == 0 {
		return sets, nil
	}

	var rows []ReservationBike
	err := d.db.WithContext(ctx).
		Where("reservation_id IN ?", reservationIDs).
		Order("reservation_id, bike_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		sets[row.ReservationID] = append(sets[row.ReservationID], row.BikeID)
	}

	return sets, nil
}

// CountByState returns the number of stored reservations per state.
func (d *ReservationDAO) CountByState(ctx context.Context) (map[int]int64, error) {
	var rows []struct {
		State int
		Total int64
	}

	err := d.db.WithContext(ctx).
		Model(&Reservation{}).
		Select("state, count(*) AS total").
		Group("state").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int64, len(rows))
	for _, row := range rows {
		counts[row.State] = row.Total
	}

	return counts, nil
}

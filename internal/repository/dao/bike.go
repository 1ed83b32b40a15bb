package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrBikeNotFound = errors.New("bike not found")

type Bike struct {
	ID uint `gorm:"primaryKey"`

	ManufacturerID uint         `gorm:"not null;index"`
	Manufacturer   Manufacturer `gorm:"constraint:OnDelete:RESTRICT"`
	Name           string       `gorm:"not null"`
	UsageID        uint         `gorm:"not null;index"`
	Usage          BikeUsage    `gorm:"constraint:OnDelete:RESTRICT"`
	GalleryID      *uint
	Gallery        *Gallery `gorm:"constraint:OnDelete:SET NULL"`

	FrameMaterial string `gorm:"not null"`
	FrameSize     string `gorm:"not null;index"`
	WheelSize     string `gorm:"not null;index"`
	ForkTravel    *int
	ShockTravel   *int
	Speeds        string `gorm:"not null"`
	Price         int    `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BikeQuery restricts a bike listing. Each non-empty list becomes an IN
// condition on its column.
type BikeQuery struct {
	UsageIDs   []uint
	WheelSizes []string
	FrameSizes []string
}

type BikeDAO struct {
	db *gorm.DB
}

func NewBikeDAO(db *gorm.DB) *BikeDAO {
	return &BikeDAO{
		db: db,
	}
}

func (d *BikeDAO) withRefs(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).Preload("Manufacturer").Preload("Usage").Preload("Gallery")
}

func (d *BikeDAO) Insert(ctx context.Context, bike Bike) (Bike, error) {
	if err := d.db.WithContext(ctx).Omit(clause.Associations).Create(&bike).Error; err != nil {
		return Bike{}, err
	}

	return d.FindByID(ctx, bike.ID)
}

func (d *BikeDAO) Update(ctx context.Context, bike Bike) (Bike, error) {
	result := d.db.WithContext(ctx).
		Model(&Bike{ID: bike.ID}).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(&bike)
	if result.Error != nil {
		return Bike{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Bike{}, ErrBikeNotFound
	}

	return d.FindByID(ctx, bike.ID)
}

func (d *BikeDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Delete(&Bike{}, id).Error
}

func (d *BikeDAO) FindByID(ctx context.Context, id uint) (Bike, error) {
	var bike Bike

	if err := d.withRefs(ctx).First(&bike, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Bike{}, ErrBikeNotFound
		}

		return Bike{}, err
	}

	return bike, nil
}

// FindByIDs returns the bikes that exist among ids, ordered by id.
func (d *BikeDAO) FindByIDs(ctx context.Context, ids []uint) ([]Bike, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var bikes []Bike
	if err := d.withRefs(ctx).Where("id IN ?", ids).Order("id").Find(&bikes).Error; err != nil {
		return nil, err
	}

	return bikes, nil
}

func (d *BikeDAO) Find(ctx context.Context, q BikeQuery) ([]Bike, error) {
	tx := d.withRefs(ctx)
	if len(q.UsageIDs) > 0 {
		tx = tx.Where("usage_id IN ?", q.UsageIDs)
	}
	if len(q.WheelSizes) > 0 {
		tx = tx.Where("wheel_size IN ?", q.WheelSizes)
	}
	if len(q.FrameSizes) > 0 {
		tx = tx.Where("frame_size IN ?", q.FrameSizes)
	}

	var bikes []Bike
	if err := tx.Order("id").Find(&bikes).Error; err != nil {
		return nil, err
	}

	return bikes, nil
}

func (d *BikeDAO) DistinctWheelSizes(ctx context.Context) ([]string, error) {
	return d.distinct(ctx, "wheel_size")
}

func (d *BikeDAO) DistinctFrameSizes(ctx context.Context) ([]string, error) {
	return d.distinct(ctx, "frame_size")
}

func (d *BikeDAO) distinct(ctx context.Context, column string) ([]string, error) {
	var values []string
	if err := d.db.WithContext(ctx).Model(&Bike{}).Distinct(column).Order(column).Pluck(column, &values).Error; err != nil {
		return nil, err
	}

	return values, nil
}

package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrManufacturerNotFound   = errors.New("manufacturer not found")
	ErrManufacturerNameExists = errors.New("manufacturer name already exists")
	ErrUsageNotFound          = errors.New("bike usage not found")
	ErrUsageNameExists        = errors.New("bike usage name already exists")
	ErrGalleryNotFound        = errors.New("gallery not found")
	ErrGalleryNameExists      = errors.New("gallery name or url already exists")
)

type Manufacturer struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"unique;not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type BikeUsage struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"unique;not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Gallery struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"unique;not null"`
	URL  string `gorm:"unique;not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ManufacturerDAO struct {
	db *gorm.DB
}

func NewManufacturerDAO(db *gorm.DB) *ManufacturerDAO {
	return &ManufacturerDAO{
		db: db,
	}
}

func (d *ManufacturerDAO) Insert(ctx context.Context, m Manufacturer) (Manufacturer, error) {
	if err := d.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return Manufacturer{}, ErrManufacturerNameExists
		}

		return Manufacturer{}, err
	}

	return m, nil
}

func (d *ManufacturerDAO) Rename(ctx context.Context, id uint, name string) (Manufacturer, error) {
	result := d.db.WithContext(ctx).Model(&Manufacturer{ID: id}).Update("name", name)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return Manufacturer{}, ErrManufacturerNameExists
		}

		return Manufacturer{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Manufacturer{}, ErrManufacturerNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *ManufacturerDAO) Delete(ctx context.Context, id uint) error {
	if err := d.db.WithContext(ctx).Delete(&Manufacturer{}, id).Error; err != nil {
		if isForeignKeyViolation(err) {
			return ErrReferenced
		}

		return err
	}

	return nil
}

func (d *ManufacturerDAO) FindByID(ctx context.Context, id uint) (Manufacturer, error) {
	var m Manufacturer

	if err := d.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Manufacturer{}, ErrManufacturerNotFound
		}

		return Manufacturer{}, err
	}

	return m, nil
}

func (d *ManufacturerDAO) FindByName(ctx context.Context, name string) (Manufacturer, error) {
	var m Manufacturer

	if err := d.db.WithContext(ctx).First(&m, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Manufacturer{}, ErrManufacturerNotFound
		}

		return Manufacturer{}, err
	}

	return m, nil
}

func (d *ManufacturerDAO) FindAll(ctx context.Context) ([]Manufacturer, error) {
	var ms []Manufacturer
	if err := d.db.WithContext(ctx).Order("name").Find(&ms).Error; err != nil {
		return nil, err
	}

	return ms, nil
}

type UsageDAO struct {
	db *gorm.DB
}

func NewUsageDAO(db *gorm.DB) *UsageDAO {
	return &UsageDAO{
		db: db,
	}
}

func (d *UsageDAO) Insert(ctx context.Context, u BikeUsage) (BikeUsage, error) {
	if err := d.db.WithContext(ctx).Create(&u).Error; err != nil {
		if isUniqueViolation(err) {
			return BikeUsage{}, ErrUsageNameExists
		}

		return BikeUsage{}, err
	}

	return u, nil
}

func (d *UsageDAO) Rename(ctx context.Context, id uint, name string) (BikeUsage, error) {
	result := d.db.WithContext(ctx).Model(&BikeUsage{ID: id}).Update("name", name)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return BikeUsage{}, ErrUsageNameExists
		}

		return BikeUsage{}, result.Error
	}
	if result.RowsAffected == 0 {
		return BikeUsage{}, ErrUsageNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *UsageDAO) Delete(ctx context.Context, id uint) error {
	if err := d.db.WithContext(ctx).Delete(&BikeUsage{}, id).Error; err != nil {
		if isForeignKeyViolation(err) {
			return ErrReferenced
		}

		return err
	}

	return nil
}

func (d *UsageDAO) FindByID(ctx context.Context, id uint) (BikeUsage, error) {
	var u BikeUsage

	if err := d.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BikeUsage{}, ErrUsageNotFound
		}

		return BikeUsage{}, err
	}

	return u, nil
}

func (d *UsageDAO) FindByName(ctx context.Context, name string) (BikeUsage, error) {
	var u BikeUsage

	if err := d.db.WithContext(ctx).First(&u, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BikeUsage{}, ErrUsageNotFound
		}

		return BikeUsage{}, err
	}

	return u, nil
}

func (d *UsageDAO) FindAll(ctx context.Context) ([]BikeUsage, error) {
	var us []BikeUsage
	if err := d.db.WithContext(ctx).Order("name").Find(&us).Error; err != nil {
		return nil, err
	}

	return us, nil
}

type GalleryDAO struct {
	db *gorm.DB
}

func NewGalleryDAO(db *gorm.DB) *GalleryDAO {
	return &GalleryDAO{
		db: db,
	}
}

func (d *GalleryDAO) Insert(ctx context.Context, g Gallery) (Gallery, error) {
	if err := d.db.WithContext(ctx).Create(&g).Error; err != nil {
		if isUniqueViolation(err) {
			return Gallery{}, ErrGalleryNameExists
		}

		return Gallery{}, err
	}

	return g, nil
}

// Update sets the name and, when url is not empty, the image url.
func (d *GalleryDAO) Update(ctx context.Context, id uint, name, url string) (Gallery, error) {
	values := map[string]interface{}{"name": name}
	if url != "" {
		values["url"] = url
	}

	result := d.db.WithContext(ctx).Model(&Gallery{ID: id}).Updates(values)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return Gallery{}, ErrGalleryNameExists
		}

		return Gallery{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Gallery{}, ErrGalleryNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *GalleryDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Delete(&Gallery{}, id).Error
}

func (d *GalleryDAO) FindByID(ctx context.Context, id uint) (Gallery, error) {
	var g Gallery

	if err := d.db.WithContext(ctx).First(&g, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Gallery{}, ErrGalleryNotFound
		}

		return Gallery{}, err
	}

	return g, nil
}

func (d *GalleryDAO) FindByName(ctx context.Context, name string) (Gallery, error) {
	var g Gallery

	if err := d.db.WithContext(ctx).First(&g, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Gallery{}, ErrGalleryNotFound
		}

		return Gallery{}, err
	}

	return g, nil
}

func (d *GalleryDAO) FindAll(ctx context.Context) ([]Gallery, error) {
	var gs []Gallery
	if err := d.db.WithContext(ctx).Order("name").Find(&gs).Error; err != nil {
		return nil, err
	}

	return gs, nil
}

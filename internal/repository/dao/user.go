package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrUserEmailExists = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	FirstName string `gorm:"not null"`
	LastName  string `gorm:"not null"`
	Email     string `gorm:"unique;not null"`
	// Password holds the bcrypt hash. Guest accounts created at checkout have none.
	Password string `gorm:"not null"`

	Role  string `gorm:"not null;index"`
	State int    `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return User{}, ErrUserEmailExists
		}

		return User{}, result.Error
	}

	return user, nil
}

// Update overwrites the profile columns of an existing user. An empty password
// leaves the stored hash untouched.
func (d *UserDAO) Update(ctx context.Context, user User) (User, error) {
	columns := []string{"first_name", "last_name", "email", "role", "state"}
	if user.Password != "" {
		columns = append(columns, "password")
	}

	result := d.db.WithContext(ctx).Model(&User{ID: user.ID}).Select(columns).Updates(&user)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return User{}, ErrUserEmailExists
		}

		return User{}, result.Error
	}
	if result.RowsAffected == 0 {
		return User{}, ErrUserNotFound
	}

	return d.FindByID(ctx, user.ID)
}

func (d *UserDAO) UpdateRole(ctx context.Context, id uint, role string) error {
	return d.updateColumn(ctx, id, "role", role)
}

func (d *UserDAO) UpdateState(ctx context.Context, id uint, state int) error {
	return d.updateColumn(ctx, id, "state", state)
}

func (d *UserDAO) updateColumn(ctx context.Context, id uint, column string, value interface{}) error {
	result := d.db.WithContext(ctx).Model(&User{ID: id}).Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Delete removes the user. Deleting an id that does not exist is not an error.
func (d *UserDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&User{}, id)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return ErrReferenced
		}

		return result.Error
	}

	return nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindAll(ctx context.Context) ([]User, error) {
	var users []User

	result := d.db.WithContext(ctx).Order("id").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

func (d *UserDAO) FindByState(ctx context.Context, state int) ([]User, error) {
	var users []User

	result := d.db.WithContext(ctx).Where("state = ?", state).Order("last_name, first_name").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

package postgres

import (
	"context"
	"errors"

	"cartzilla/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		DB: db,
	}
}

// Register creates the user, its append-only role audit row and exactly one
// matching profile row in a single transaction.
func (r *UserRepository) Register(ctx context.Context, user *domain.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		roleRow := domain.RoleRecord{UserID: user.ID, Role: user.Role}
		if err := tx.Create(&roleRow).Error; err != nil {
			return err
		}

		if user.Role == domain.RoleSeller {
			return tx.Create(&domain.Seller{UserID: user.ID}).Error
		}
		return tx.Create(&domain.Customer{UserID: user.ID}).Error
	})
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	var user domain.User

	err := r.DB.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, errors.New("user not found")
		}
		return domain.User{}, err
	}

	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User

	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, errors.New("user not found")
		}
		return domain.User{}, err
	}

	return user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	var user domain.User

	err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, errors.New("user not found")
		}
		return domain.User{}, err
	}

	return user, nil
}

// UpdateWithProfile writes the identity fields and the role-specific profile
// row in one transaction so a failing half never persists the other.
func (r *UserRepository) UpdateWithProfile(ctx context.Context, user *domain.User, customer *domain.Customer, seller *domain.Seller) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.User{}).Where("id = ?", user.ID).
			Select("username", "email", "updated_at").
			Updates(user)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.New("user not found")
		}

		if customer != nil {
			return tx.Model(&domain.Customer{}).Where("user_id = ?", user.ID).
				Update("address", customer.Address).Error
		}
		if seller != nil {
			return tx.Model(&domain.Seller{}).Where("user_id = ?", user.ID).
				Update("details", seller.Details).Error
		}
		return nil
	})
}

func (r *UserRepository) UpdateEmailVerification(ctx context.Context, id uint, isVerified bool) error {
	result := r.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("is_verified", isVerified)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New("user not found or status already updated")
	}

	return nil
}

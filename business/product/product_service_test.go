package product

import (
	"context"
	"fmt"
	"testing"

	"cartzilla/domain"
	"cartzilla/internal/repository/events"
	psqlRepo "cartzilla/internal/repository/postgres"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	DB       *gorm.DB
	Service  *productService
	Seller   domain.User
	Customer domain.User
	Category domain.Category
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.RoleRecord{},
		&domain.Customer{},
		&domain.Seller{},
		&domain.Category{},
		&domain.Product{},
		&domain.Review{},
		&domain.BargainRequest{},
	))

	svc := NewProductService(
		psqlRepo.NewProductRepository(db),
		psqlRepo.NewCategoryRepository(db),
		psqlRepo.NewProfileRepository(db),
		psqlRepo.NewReviewRepository(db),
		events.NopPublisher{},
	)

	sellerUser := domain.User{Username: "seller", Email: "seller@example.com", Password: "x", Role: domain.RoleSeller, IsVerified: true}
	require.NoError(t, db.Create(&sellerUser).Error)
	require.NoError(t, db.Create(&domain.Seller{UserID: sellerUser.ID, Details: "shop"}).Error)

	customer := domain.User{Username: "customer", Email: "customer@example.com", Password: "x", Role: domain.RoleCustomer, IsVerified: true}
	require.NoError(t, db.Create(&customer).Error)

	category := domain.Category{Name: "electronics"}
	require.NoError(t, db.Create(&category).Error)

	return &testEnv{DB: db, Service: svc, Seller: sellerUser, Customer: customer, Category: category}
}

func TestCreateProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.Service.CreateProduct(ctx, env.Seller.ID, &domain.Product{
		Name:       "headphones",
		Price:      100,
		Stock:      5,
		CategoryID: env.Category.ID,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.NotZero(t, created.SellerID)
}

func TestCreateProduct_NotSeller(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Service.CreateProduct(ctx, env.Customer.ID, &domain.Product{
		Name:       "headphones",
		Price:      100,
		CategoryID: env.Category.ID,
	})
	require.Error(t, err)
	require.Equal(t, "you do not have seller privileges", err.Error())
}

func TestCreateProduct_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	badMin := -5.0
	tests := []struct {
		name    string
		product domain.Product
		wantErr string
	}{
		{"missing name", domain.Product{Price: 10, CategoryID: env.Category.ID}, "product name is required"},
		{"zero price", domain.Product{Name: "a", Price: 0, CategoryID: env.Category.ID}, "price must be greater than 0"},
		{"negative stock", domain.Product{Name: "a", Price: 10, Stock: -1, CategoryID: env.Category.ID}, "stock cannot be negative"},
		{"negative min price", domain.Product{Name: "a", Price: 10, CategoryID: env.Category.ID, MinPrice: &badMin}, "minimum price must be greater than 0"},
		{"missing category", domain.Product{Name: "a", Price: 10, CategoryID: 9999}, "category not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.product
			_, err := env.Service.CreateProduct(ctx, env.Seller.ID, &p)
			require.Error(t, err)
			require.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestUpdateProduct_OwnershipGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.Service.CreateProduct(ctx, env.Seller.ID, &domain.Product{
		Name: "headphones", Price: 100, Stock: 5, CategoryID: env.Category.ID,
	})
	require.NoError(t, err)

	otherUser := domain.User{Username: "rival", Email: "rival@example.com", Password: "x", Role: domain.RoleSeller, IsVerified: true}
	require.NoError(t, env.DB.Create(&otherUser).Error)
	require.NoError(t, env.DB.Create(&domain.Seller{UserID: otherUser.ID, Details: "rival shop"}).Error)

	_, err = env.Service.UpdateProduct(ctx, otherUser.ID, &domain.Product{
		ID: created.ID, Name: "hijacked", Price: 1, CategoryID: env.Category.ID,
	})
	require.Error(t, err)
	require.Equal(t, "you can only edit your own products", err.Error())

	var stored domain.Product
	require.NoError(t, env.DB.First(&stored, created.ID).Error)
	require.Equal(t, "headphones", stored.Name)
	require.Equal(t, 100.0, stored.Price)
}

func TestUpdateProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.Service.CreateProduct(ctx, env.Seller.ID, &domain.Product{
		Name: "headphones", Price: 100, Stock: 5, CategoryID: env.Category.ID,
	})
	require.NoError(t, err)

	minPrice := 40.0
	updated, err := env.Service.UpdateProduct(ctx, env.Seller.ID, &domain.Product{
		ID:           created.ID,
		Name:         "headphones pro",
		Price:        120,
		Stock:        2,
		CategoryID:   env.Category.ID,
		AllowBargain: true,
		MinPrice:     &minPrice,
	})
	require.NoError(t, err)
	require.Equal(t, "headphones pro", updated.Name)
	require.Equal(t, 120.0, updated.Price)
	require.True(t, updated.AllowBargain)
	require.NotNil(t, updated.MinPrice)
	require.Equal(t, 40.0, *updated.MinPrice)
}

func TestDeleteProduct_Cascade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.Service.CreateProduct(ctx, env.Seller.ID, &domain.Product{
		Name: "headphones", Price: 100, Stock: 5, CategoryID: env.Category.ID, AllowBargain: true,
	})
	require.NoError(t, err)

	require.NoError(t, env.DB.Create(&domain.Review{UserID: env.Customer.ID, ProductID: created.ID, Rating: 4, Comment: "ok"}).Error)
	require.NoError(t, env.DB.Create(&domain.BargainRequest{UserID: env.Customer.ID, ProductID: created.ID, OfferedPrice: 50, Status: domain.BargainPending}).Error)

	require.NoError(t, env.Service.DeleteProduct(ctx, env.Seller.ID, created.ID))

	var productCount, reviewCount, bargainCount int64
	require.NoError(t, env.DB.Model(&domain.Product{}).Count(&productCount).Error)
	require.NoError(t, env.DB.Model(&domain.Review{}).Count(&reviewCount).Error)
	require.NoError(t, env.DB.Model(&domain.BargainRequest{}).Count(&bargainCount).Error)
	require.Zero(t, productCount)
	require.Zero(t, reviewCount)
	require.Zero(t, bargainCount)
}

func TestDeleteProduct_OwnershipGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.Service.CreateProduct(ctx, env.Seller.ID, &domain.Product{
		Name: "headphones", Price: 100, Stock: 5, CategoryID: env.Category.ID,
	})
	require.NoError(t, err)

	otherUser := domain.User{Username: "rival", Email: "rival@example.com", Password: "x", Role: domain.RoleSeller, IsVerified: true}
	require.NoError(t, env.DB.Create(&otherUser).Error)
	require.NoError(t, env.DB.Create(&domain.Seller{UserID: otherUser.ID, Details: "rival shop"}).Error)

	err = env.Service.DeleteProduct(ctx, otherUser.ID, created.ID)
	require.Error(t, err)
	require.Equal(t, "you can only delete your own products", err.Error())

	var count int64
	require.NoError(t, env.DB.Model(&domain.Product{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestGetProducts_Filters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	other := domain.Category{Name: "books"}
	require.NoError(t, env.DB.Create(&other).Error)

	seed := []domain.Product{
		{Name: "Wireless Headphones", Price: 100, Stock: 1, CategoryID: env.Category.ID},
		{Name: "Wired Headphones", Price: 30, Stock: 1, CategoryID: env.Category.ID},
		{Name: "Cookbook", Price: 20, Stock: 1, CategoryID: other.ID},
	}
	for i := range seed {
		_, err := env.Service.CreateProduct(ctx, env.Seller.ID, &seed[i])
		require.NoError(t, err)
	}

	all, err := env.Service.GetProducts(ctx, 0, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	byCategory, err := env.Service.GetProducts(ctx, env.Category.ID, "")
	require.NoError(t, err)
	require.Len(t, byCategory, 2)

	// Search is case-insensitive substring match.
	bySearch, err := env.Service.GetProducts(ctx, 0, "headphones")
	require.NoError(t, err)
	require.Len(t, bySearch, 2)

	combined, err := env.Service.GetProducts(ctx, other.ID, "headphones")
	require.NoError(t, err)
	require.Empty(t, combined)
}

func TestGetHomeProducts_LatestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		_, err := env.Service.CreateProduct(ctx, env.Seller.ID, &domain.Product{
			Name:       fmt.Sprintf("product-%d", i),
			Price:      10,
			Stock:      1,
			CategoryID: env.Category.ID,
		})
		require.NoError(t, err)
	}

	latest, err := env.Service.GetHomeProducts(ctx)
	require.NoError(t, err)
	require.Len(t, latest, homeProductCount)
	require.Equal(t, "product-7", latest[0].Name)
}

func TestGetProductDetail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.Service.CreateProduct(ctx, env.Seller.ID, &domain.Product{
		Name: "headphones", Price: 100, Stock: 5, CategoryID: env.Category.ID,
	})
	require.NoError(t, err)

	for _, rating := range []int{3, 5, 4} {
		require.NoError(t, env.DB.Create(&domain.Review{UserID: env.Customer.ID, ProductID: created.ID, Rating: rating, Comment: "r"}).Error)
	}

	detail, err := env.Service.GetProductDetail(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, detail.Product.ID)
	require.Len(t, detail.Reviews, 3)
	require.InDelta(t, 4.0, detail.AverageRating, 0.0001)
}

func TestGetSellerProducts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Service.CreateProduct(ctx, env.Seller.ID, &domain.Product{
		Name: "headphones", Price: 100, Stock: 5, CategoryID: env.Category.ID,
	})
	require.NoError(t, err)

	products, err := env.Service.GetSellerProducts(ctx, env.Seller.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)

	_, err = env.Service.GetSellerProducts(ctx, env.Customer.ID)
	require.Error(t, err)
	require.Equal(t, "you do not have seller privileges", err.Error())
}

package bargain

import (
	"context"
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
	Service  *bargainService
	Seller   domain.User
	Customer domain.User
	Product  domain.Product
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

	svc := NewBargainService(
		psqlRepo.NewBargainRepository(db),
		psqlRepo.NewProductRepository(db),
		psqlRepo.NewProfileRepository(db),
		events.NopPublisher{},
	)

	sellerUser := domain.User{Username: "seller", Email: "seller@example.com", Password: "x", Role: domain.RoleSeller, IsVerified: true}
	require.NoError(t, db.Create(&sellerUser).Error)
	seller := domain.Seller{UserID: sellerUser.ID, Details: "test seller"}
	require.NoError(t, db.Create(&seller).Error)

	customerUser := domain.User{Username: "customer", Email: "customer@example.com", Password: "x", Role: domain.RoleCustomer, IsVerified: true}
	require.NoError(t, db.Create(&customerUser).Error)
	require.NoError(t, db.Create(&domain.Customer{UserID: customerUser.ID, Address: "somewhere"}).Error)

	category := domain.Category{Name: "electronics"}
	require.NoError(t, db.Create(&category).Error)

	minPrice := 50.0
	product := domain.Product{
		SellerID:     seller.ID,
		CategoryID:   category.ID,
		Name:         "headphones",
		Price:        100,
		Stock:        5,
		AllowBargain: true,
		MinPrice:     &minPrice,
	}
	require.NoError(t, db.Create(&product).Error)

	return &testEnv{
		DB:       db,
		Service:  svc,
		Seller:   sellerUser,
		Customer: customerUser,
		Product:  product,
	}
}

func TestCreateBargain(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bargain, err := env.Service.CreateBargain(ctx, env.Customer.ID, env.Product.ID, 60)
	require.NoError(t, err)
	require.Equal(t, domain.BargainPending, bargain.Status)
	require.Equal(t, 60.0, bargain.OfferedPrice)
	require.Nil(t, bargain.CounterPrice)
}

func TestCreateBargain_NotAllowed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	fixed := domain.Product{
		SellerID:     env.Product.SellerID,
		CategoryID:   env.Product.CategoryID,
		Name:         "fixed price item",
		Price:        30,
		AllowBargain: false,
	}
	require.NoError(t, env.DB.Create(&fixed).Error)

	_, err := env.Service.CreateBargain(ctx, env.Customer.ID, fixed.ID, 20)
	require.Error(t, err)
	require.Equal(t, "this product does not allow bargaining", err.Error())

	var count int64
	require.NoError(t, env.DB.Model(&domain.BargainRequest{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateBargain_BelowMinPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Service.CreateBargain(ctx, env.Customer.ID, env.Product.ID, 49.99)
	require.Error(t, err)
	require.Equal(t, "your offer must be at least $50.00", err.Error())

	// An offer exactly at the floor is accepted.
	bargain, err := env.Service.CreateBargain(ctx, env.Customer.ID, env.Product.ID, 50)
	require.NoError(t, err)
	require.Equal(t, domain.BargainPending, bargain.Status)
}

func TestCreateBargain_InvalidPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Service.CreateBargain(ctx, env.Customer.ID, env.Product.ID, 0)
	require.Error(t, err)
	require.Equal(t, "offered price must be greater than 0", err.Error())
}

func TestSellerRespond_Accept(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bargain, err := env.Service.CreateBargain(ctx, env.Customer.ID, env.Product.ID, 60)
	require.NoError(t, err)

	updated, err := env.Service.SellerRespond(ctx, env.Seller.ID, bargain.ID, "accept", nil)
	require.NoError(t, err)
	require.Equal(t, domain.BargainAccepted, updated.Status)

	var stored domain.BargainRequest
	require.NoError(t, env.DB.First(&stored, bargain.ID).Error)
	require.Equal(t, domain.BargainAccepted, stored.Status)
}

func TestSellerRespond_Reject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bargain, err := env.Service.CreateBargain(ctx, env.Customer.ID, env.Product.ID, 60)
	require.NoError(t, err)

	updated, err := env.Service.SellerRespond(ctx, env.Seller.ID, bargain.ID, "reject", nil)
	require.NoError(t, err)
	require.Equal(t, domain.BargainRejected, updated.Status)
}

func TestSellerRespond_Counter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bargain, err := env.Service.CreateBargain(ctx, env.Customer.ID, env.Product.ID, 60)
	require.NoError(t, err)

	counter := 80.0
	updated, err := env.Service.SellerRespond(ctx, env.Seller.ID, bargain.ID, "counter", &counter)
	require.NoError(t, err)
	require.Equal(t, domain.BargainCounter, updated.Status)
	require.NotNil(t, updated.CounterPrice)
	require.Equal(t, 80.0, *updated.CounterPrice)
}

func TestSellerRespond_CounterWithoutPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bargain, err := env.Service.CreateBargain(ctx, env.Customer.ID, env.Product.ID, 60)
	require.NoError(t, err)

	_, err = env.Service.SellerRespond(ctx, env.Seller.ID, bargain.ID, "counter", nil)
	require.Error(t, err)
	require.Equal(t, "invalid counter offer", err.Error())

	var stored domain.BargainRequest
	require.NoError(t, env.DB.First(&stored, bargain.ID).Error)
	require.Equal(t, domain.BargainPending, stored.Status)
}

func TestSellerRespond_TerminalStateRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bargain, err := env.Service.CreateBargain(ctx, env.Customer.ID, env.Product.ID, 60)
	require.NoError(t, err)

	_, err = env.Service.SellerRespond(ctx, env.Seller.ID, bargain.ID, "accept", nil)
	require.NoError(t, err)

	for _, action := range []string{"accept", "reject", "counter"} {
		counter := 70.0
		_, err := env.Service.SellerRespond(ctx, env.Seller.ID, bargain.ID, action, &counter)
		require.Error(t, err)
		require.Equal(t, "bargain request is no longer pending", err.Error())
	}

	var stored domain.BargainRequest
	require.NoError(t, env.DB.First(&stored, bargain.ID).Error)
	require.Equal(t, domain.BargainAccepted, stored.Status)
}

func TestSellerRespond_NotOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	otherUser := domain.User{Username: "other-seller", Email: "other@example.com", Password: "x", Role: domain.RoleSeller, IsVerified: true}
	require.NoError(t, env.DB.Create(&otherUser).Error)
	require.NoError(t, env.DB.Create(&domain.Seller{UserID: otherUser.ID, Details: "another shop"}).Error)

	bargain, err := env.Service.CreateBargain(ctx, env.Customer.ID, env.Product.ID, 60)
	require.NoError(t, err)

	_, err = env.Service.SellerRespond(ctx, otherUser.ID, bargain.ID, "accept", nil)
	require.Error(t, err)
	require.Equal(t, "you can only handle bargains for your own products", err.Error())

	var stored domain.BargainRequest
	require.NoError(t, env.DB.First(&stored, bargain.ID).Error)
	require.Equal(t, domain.BargainPending, stored.Status)
}

func TestSellerRespond_NotSeller(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bargain, err := env.Service.CreateBargain(ctx, env.Customer.ID, env.Product.ID, 60)
	require.NoError(t, err)

	_, err = env.Service.SellerRespond(ctx, env.Customer.ID, bargain.ID, "accept", nil)
	require.Error(t, err)
	require.Equal(t, "you do not have seller privileges", err.Error())
}

func TestCustomerRespond_AcceptCounter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bargain, err := env.Service.CreateBargain(ctx, env.Customer.ID, env.Product.ID, 60)
	require.NoError(t, err)

	counter := 80.0
	_, err = env.Service.SellerRespond(ctx, env.Seller.ID, bargain.ID, "counter", &counter)
	require.NoError(t, err)

	updated, err := env.Service.CustomerRespond(ctx, env.Customer.ID, bargain.ID, "accept")
	require.NoError(t, err)
	require.Equal(t, domain.BargainAccepted, updated.Status)
	require.NotNil(t, updated.CounterPrice)
	require.Equal(t, 80.0, *updated.CounterPrice)
}

func TestCustomerRespond_RejectCounter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bargain, err := env.Service.CreateBargain(ctx, env.Customer.ID, env.Product.ID, 60)
	require.NoError(t, err)

	counter := 80.0
	_, err = env.Service.SellerRespond(ctx, env.Seller.ID, bargain.ID, "counter", &counter)
	require.NoError(t, err)

	updated, err := env.Service.CustomerRespond(ctx, env.Customer.ID, bargain.ID, "reject")
	require.NoError(t, err)
	require.Equal(t, domain.BargainRejected, updated.Status)
}

func TestCustomerRespond_NoCounterPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bargain, err := env.Service.CreateBargain(ctx, env.Customer.ID, env.Product.ID, 60)
	require.NoError(t, err)

	_, err = env.Service.CustomerRespond(ctx, env.Customer.ID, bargain.ID, "accept")
	require.Error(t, err)
	require.Equal(t, "no counter offer to respond to", err.Error())
}

func TestCustomerRespond_NotInitiator(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	otherUser := domain.User{Username: "other-customer", Email: "other-c@example.com", Password: "x", Role: domain.RoleCustomer, IsVerified: true}
	require.NoError(t, env.DB.Create(&otherUser).Error)

	bargain, err := env.Service.CreateBargain(ctx, env.Customer.ID, env.Product.ID, 60)
	require.NoError(t, err)

	counter := 80.0
	_, err = env.Service.SellerRespond(ctx, env.Seller.ID, bargain.ID, "counter", &counter)
	require.NoError(t, err)

	_, err = env.Service.CustomerRespond(ctx, otherUser.ID, bargain.ID, "accept")
	require.Error(t, err)
	require.Equal(t, "you can only respond to your own bargain requests", err.Error())
}

func TestCustomerRespond_TerminalStateRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bargain, err := env.Service.CreateBargain(ctx, env.Customer.ID, env.Product.ID, 60)
	require.NoError(t, err)

	counter := 80.0
	_, err = env.Service.SellerRespond(ctx, env.Seller.ID, bargain.ID, "counter", &counter)
	require.NoError(t, err)

	_, err = env.Service.CustomerRespond(ctx, env.Customer.ID, bargain.ID, "accept")
	require.NoError(t, err)

	_, err = env.Service.CustomerRespond(ctx, env.Customer.ID, bargain.ID, "reject")
	require.Error(t, err)
	require.Equal(t, "no counter offer to respond to", err.Error())
}

func TestNegotiationEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	floor := 100.0
	product := domain.Product{
		SellerID:     env.Product.SellerID,
		CategoryID:   env.Product.CategoryID,
		Name:         "camera",
		Price:        150,
		AllowBargain: true,
		MinPrice:     &floor,
	}
	require.NoError(t, env.DB.Create(&product).Error)

	// Below the floor: refused, nothing stored.
	_, err := env.Service.CreateBargain(ctx, env.Customer.ID, product.ID, 80)
	require.Error(t, err)
	require.Equal(t, "your offer must be at least $100.00", err.Error())

	var count int64
	require.NoError(t, env.DB.Model(&domain.BargainRequest{}).Where("product_id = ?", product.ID).Count(&count).Error)
	require.Zero(t, count)

	// Valid offer, seller counters, customer accepts.
	bargain, err := env.Service.CreateBargain(ctx, env.Customer.ID, product.ID, 110)
	require.NoError(t, err)

	counter := 130.0
	countered, err := env.Service.SellerRespond(ctx, env.Seller.ID, bargain.ID, "counter", &counter)
	require.NoError(t, err)
	require.Equal(t, domain.BargainCounter, countered.Status)
	require.Equal(t, 130.0, *countered.CounterPrice)

	accepted, err := env.Service.CustomerRespond(ctx, env.Customer.ID, bargain.ID, "accept")
	require.NoError(t, err)
	require.Equal(t, domain.BargainAccepted, accepted.Status)

	// Accepted is terminal for both sides.
	_, err = env.Service.SellerRespond(ctx, env.Seller.ID, bargain.ID, "reject", nil)
	require.Error(t, err)
	require.Equal(t, "bargain request is no longer pending", err.Error())

	var stored domain.BargainRequest
	require.NoError(t, env.DB.First(&stored, bargain.ID).Error)
	require.Equal(t, domain.BargainAccepted, stored.Status)
}

func TestGetSellerBargains(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Service.CreateBargain(ctx, env.Customer.ID, env.Product.ID, 60)
	require.NoError(t, err)
	_, err = env.Service.CreateBargain(ctx, env.Customer.ID, env.Product.ID, 70)
	require.NoError(t, err)

	// A second seller with their own product and bargain must not leak in.
	otherUser := domain.User{Username: "other-seller", Email: "other@example.com", Password: "x", Role: domain.RoleSeller, IsVerified: true}
	require.NoError(t, env.DB.Create(&otherUser).Error)
	otherSeller := domain.Seller{UserID: otherUser.ID, Details: "another shop"}
	require.NoError(t, env.DB.Create(&otherSeller).Error)
	otherProduct := domain.Product{SellerID: otherSeller.ID, CategoryID: env.Product.CategoryID, Name: "keyboard", Price: 40, AllowBargain: true}
	require.NoError(t, env.DB.Create(&otherProduct).Error)
	_, err = env.Service.CreateBargain(ctx, env.Customer.ID, otherProduct.ID, 30)
	require.NoError(t, err)

	bargains, err := env.Service.GetSellerBargains(ctx, env.Seller.ID)
	require.NoError(t, err)
	require.Len(t, bargains, 2)
	for _, b := range bargains {
		require.Equal(t, env.Product.ID, b.ProductID)
	}
}

func TestGetUserBargains(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Service.CreateBargain(ctx, env.Customer.ID, env.Product.ID, 60)
	require.NoError(t, err)

	bargains, err := env.Service.GetUserBargains(ctx, env.Customer.ID)
	require.NoError(t, err)
	require.Len(t, bargains, 1)
	require.Equal(t, env.Customer.ID, bargains[0].UserID)
}

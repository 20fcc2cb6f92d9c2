package usecase

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	infrarepo "storefront/internal/infra/repository"
	repo "storefront/internal/repository"
	"storefront/internal/repository/mocks"
	"storefront/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCartUC() (*CartUsecase, *mocks.UserRepository, *mocks.ProductRepository, *mocks.CartItemRepository) {
	users := new(mocks.UserRepository)
	products := new(mocks.ProductRepository)
	items := new(mocks.CartItemRepository)
	return NewCartUsecase(users, products, items), users, products, items
}

var jeans = model.Product{ID: 7, Name: "Jeans", Price: decimal.RequireFromString("49.99"), StockQuantity: 10}

func TestAddItem_NewLine(t *testing.T) {
	ctx := context.Background()
	uc, users, products, items := newCartUC()

	users.On("FindByID", ctx, int64(1)).Return(&model.User{ID: 1}, nil)
	products.On("FindByID", ctx, int64(7)).Return(jeans, nil)
	items.On("FindByUserAndProduct", ctx, int64(1), int64(7)).Return(model.CartItem{}, repo.ErrNotFound)
	items.On("Create", ctx, model.CartItem{UserID: 1, ProductID: 7, Quantity: 2}).
		Return(model.CartItem{ID: 100, UserID: 1, ProductID: 7, Quantity: 2}, nil)

	out, err := uc.AddItem(ctx, 1, AddCartItemInput{ProductID: 7, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(100), out.ID)
	assert.Equal(t, "99.98", out.Subtotal.StringFixed(2))

	items.AssertExpectations(t)
}

func TestAddItem_SameProductAccumulates(t *testing.T) {
	ctx := context.Background()
	uc, users, products, items := newCartUC()

	users.On("FindByID", ctx, int64(1)).Return(&model.User{ID: 1}, nil)
	products.On("FindByID", ctx, int64(7)).Return(jeans, nil)
	items.On("FindByUserAndProduct", ctx, int64(1), int64(7)).
		Return(model.CartItem{ID: 100, UserID: 1, ProductID: 7, Quantity: 2}, nil)
	items.On("UpdateQuantity", ctx, int64(100), int64(5)).Return(nil)

	out, err := uc.AddItem(ctx, 1, AddCartItemInput{ProductID: 7, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.Quantity)

	items.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	items.AssertExpectations(t)
}

func TestAddItem_ConcurrentCreateFallsBackToAccumulate(t *testing.T) {
	ctx := context.Background()
	uc, users, products, items := newCartUC()

	users.On("FindByID", ctx, int64(1)).Return(&model.User{ID: 1}, nil)
	products.On("FindByID", ctx, int64(7)).Return(jeans, nil)
	items.On("FindByUserAndProduct", ctx, int64(1), int64(7)).Return(model.CartItem{}, repo.ErrNotFound).Once()
	items.On("Create", ctx, mock.Anything).Return(model.CartItem{}, repo.ErrDuplicate)
	items.On("FindByUserAndProduct", ctx, int64(1), int64(7)).
		Return(model.CartItem{ID: 100, UserID: 1, ProductID: 7, Quantity: 1}, nil).Once()
	items.On("UpdateQuantity", ctx, int64(100), int64(2)).Return(nil)

	out, err := uc.AddItem(ctx, 1, AddCartItemInput{ProductID: 7, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Quantity)
	items.AssertExpectations(t)
}

func TestAddItem_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	uc, users, products, items := newCartUC()

	users.On("FindByID", ctx, int64(1)).Return(&model.User{ID: 1}, nil)
	products.On("FindByID", ctx, int64(7)).Return(jeans, nil)

	_, err := uc.AddItem(ctx, 1, AddCartItemInput{ProductID: 7, Quantity: 11})
	ue, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindBusiness, ue.Kind)
	assert.Equal(t, "Insufficient stock for product: Jeans", ue.Message)
	items.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddItem_UnknownProductAndUser(t *testing.T) {
	ctx := context.Background()
	uc, users, products, _ := newCartUC()

	users.On("FindByID", ctx, int64(1)).Return(&model.User{ID: 1}, nil)
	users.On("FindByID", ctx, int64(2)).Return(nil, repo.ErrNotFound)
	products.On("FindByID", ctx, int64(404)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.AddItem(ctx, 1, AddCartItemInput{ProductID: 404, Quantity: 1})
	ue, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, ue.Kind)
	assert.Equal(t, "Product not found with id: 404", ue.Message)

	_, err = uc.AddItem(ctx, 2, AddCartItemInput{ProductID: 7, Quantity: 1})
	assert.True(t, IsKind(err, KindNotFound))
}

func TestAddItem_QuantityMustBePositive(t *testing.T) {
	uc, users, _, _ := newCartUC()

	_, err := uc.AddItem(context.Background(), 1, AddCartItemInput{ProductID: 7, Quantity: 0})
	assert.True(t, IsKind(err, KindValidation))
	users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestUpdateItem_OtherUsersItemForbidden(t *testing.T) {
	ctx := context.Background()
	uc, _, _, items := newCartUC()

	items.On("FindByID", ctx, int64(100)).Return(model.CartItem{ID: 100, UserID: 2, ProductID: 7, Quantity: 1}, nil)

	_, err := uc.UpdateItem(ctx, 1, 100, UpdateCartItemInput{Quantity: 3})
	ue, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindForbidden, ue.Kind)
	assert.Equal(t, "Unauthorized to update this cart item", ue.Message)

	err = uc.RemoveItem(ctx, 1, 100)
	ue, ok = AsError(err)
	require.True(t, ok)
	assert.Equal(t, "Unauthorized to remove this cart item", ue.Message)

	items.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
	items.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}

func TestUpdateItem_OverwritesQuantity(t *testing.T) {
	ctx := context.Background()
	uc, _, products, items := newCartUC()

	items.On("FindByID", ctx, int64(100)).Return(model.CartItem{ID: 100, UserID: 1, ProductID: 7, Quantity: 4}, nil)
	products.On("FindByID", ctx, int64(7)).Return(jeans, nil)
	items.On("UpdateQuantity", ctx, int64(100), int64(1)).Return(nil)

	out, err := uc.UpdateItem(ctx, 1, 100, UpdateCartItemInput{Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Quantity)
	assert.Equal(t, "49.99", out.Subtotal.StringFixed(2))
}

func TestRemoveItem_NotFound(t *testing.T) {
	ctx := context.Background()
	uc, _, _, items := newCartUC()

	items.On("FindByID", ctx, int64(5)).Return(model.CartItem{}, repo.ErrNotFound)

	err := uc.RemoveItem(ctx, 1, 5)
	ue, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "Cart item not found with id: 5", ue.Message)
}

// 実DBで確認する
func newCartUCOnDB(t *testing.T) (*CartUsecase, *gorm.DB, model.User, model.Product) {
	t.Helper()
	gdb := testutil.NewDB(t)
	roles := testutil.SeedRoles(t, gdb)
	uc := NewCartUsecase(
		infrarepo.NewUserGormRepository(gdb),
		infrarepo.NewProductGormRepository(gdb),
		infrarepo.NewCartItemGormRepository(gdb),
	)
	return uc, gdb,
		testutil.CreateUser(t, gdb, "shopper", roles[model.RoleUser]),
		testutil.CreateProduct(t, gdb, "Jeans", "49.99", 10, nil)
}

func cartLines(t *testing.T, gdb *gorm.DB, userID int64) []model.CartItem {
	t.Helper()
	items, err := infrarepo.NewCartItemGormRepository(gdb).ListByUserID(context.Background(), userID)
	require.NoError(t, err)
	return items
}

func TestRemoveItem_DeletesOwnedLineOnce(t *testing.T) {
	ctx := context.Background()
	uc, gdb, user, p := newCartUCOnDB(t)
	line := testutil.AddToCart(t, gdb, user.ID, p.ID, 2)

	require.NoError(t, uc.RemoveItem(ctx, user.ID, line.ID))
	assert.Empty(t, cartLines(t, gdb, user.ID))

	// 2回目は404
	err := uc.RemoveItem(ctx, user.ID, line.ID)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	uc, gdb, user, p := newCartUCOnDB(t)

	t.Run("removes every line", func(t *testing.T) {
		testutil.AddToCart(t, gdb, user.ID, p.ID, 3)

		require.NoError(t, uc.ClearCart(ctx, user.ID))
		assert.Empty(t, cartLines(t, gdb, user.ID))
	})

	t.Run("already empty cart succeeds", func(t *testing.T) {
		require.NoError(t, uc.ClearCart(ctx, user.ID))
	})
}

func TestListItems_EmptyCartIsEmptySlice(t *testing.T) {
	ctx := context.Background()
	uc, _, _, items := newCartUC()

	items.On("ListByUserID", ctx, int64(1)).Return(nil, nil)

	out, err := uc.ListItems(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

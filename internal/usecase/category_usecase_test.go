package usecase

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreate_DuplicateName(t *testing.T) {
	ctx := context.Background()
	categories := new(mocks.CategoryRepository)
	uc := NewCategoryUsecase(categories, new(mocks.ProductRepository))

	categories.On("ExistsByName", ctx, "Books").Return(true, nil)

	_, err := uc.Create(ctx, CategoryInput{Name: " Books "})
	ue, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindBusiness, ue.Kind)
	assert.Equal(t, "Category with name 'Books' already exists", ue.Message)
	categories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCategoryCreate_RaceOnUniqueIndex(t *testing.T) {
	ctx := context.Background()
	categories := new(mocks.CategoryRepository)
	uc := NewCategoryUsecase(categories, new(mocks.ProductRepository))

	categories.On("ExistsByName", ctx, "Books").Return(false, nil)
	categories.On("Create", ctx, model.Category{Name: "Books"}).Return(model.Category{}, repo.ErrDuplicate)

	_, err := uc.Create(ctx, CategoryInput{Name: "Books"})
	assert.True(t, IsKind(err, KindBusiness))
}

func TestCategoryUpdate_KeepNameSkipsDuplicateCheck(t *testing.T) {
	ctx := context.Background()
	categories := new(mocks.CategoryRepository)
	uc := NewCategoryUsecase(categories, new(mocks.ProductRepository))

	categories.On("FindByID", ctx, int64(3)).Return(model.Category{ID: 3, Name: "Books"}, nil)
	categories.On("Update", ctx, model.Category{ID: 3, Name: "Books", Description: "new"}).Return(nil)

	out, err := uc.Update(ctx, 3, CategoryInput{Name: "Books", Description: "new"})
	require.NoError(t, err)
	assert.Equal(t, "new", out.Description)
	categories.AssertNotCalled(t, "ExistsByName", mock.Anything, mock.Anything)
}

func TestCategoryUpdate_RenameToTakenName(t *testing.T) {
	ctx := context.Background()
	categories := new(mocks.CategoryRepository)
	uc := NewCategoryUsecase(categories, new(mocks.ProductRepository))

	categories.On("FindByID", ctx, int64(3)).Return(model.Category{ID: 3, Name: "Books"}, nil)
	categories.On("ExistsByName", ctx, "Clothing").Return(true, nil)

	_, err := uc.Update(ctx, 3, CategoryInput{Name: "Clothing"})
	assert.True(t, IsKind(err, KindBusiness))
	categories.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCategoryDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		categories := new(mocks.CategoryRepository)
		uc := NewCategoryUsecase(categories, new(mocks.ProductRepository))
		categories.On("FindByID", ctx, int64(9)).Return(model.Category{}, repo.ErrNotFound)

		err := uc.Delete(ctx, 9)
		ue, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, "Category not found with id: 9", ue.Message)
	})

	t.Run("still has products", func(t *testing.T) {
		categories := new(mocks.CategoryRepository)
		products := new(mocks.ProductRepository)
		uc := NewCategoryUsecase(categories, products)
		categories.On("FindByID", ctx, int64(1)).Return(model.Category{ID: 1, Name: "Electronics"}, nil)
		products.On("CountByCategory", ctx, int64(1)).Return(int64(2), nil)

		err := uc.Delete(ctx, 1)
		assert.True(t, IsKind(err, KindBusiness))
		categories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("empty category", func(t *testing.T) {
		categories := new(mocks.CategoryRepository)
		products := new(mocks.ProductRepository)
		uc := NewCategoryUsecase(categories, products)
		categories.On("FindByID", ctx, int64(4)).Return(model.Category{ID: 4, Name: "Home & Garden"}, nil)
		products.On("CountByCategory", ctx, int64(4)).Return(int64(0), nil)
		categories.On("Delete", ctx, int64(4)).Return(nil)

		require.NoError(t, uc.Delete(ctx, 4))
		categories.AssertExpectations(t)
	})
}

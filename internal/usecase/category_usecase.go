package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
	productRepo  repo.ProductRepository
}

func NewCategoryUsecase(categoryRepo repo.CategoryRepository, productRepo repo.ProductRepository) *CategoryUsecase {
	return &CategoryUsecase{categoryRepo: categoryRepo, productRepo: productRepo}
}

type CategoryInput struct {
	Name        string
	Description string
}

type CategoryOutput struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toCategoryOutput(c model.Category) CategoryOutput {
	return CategoryOutput{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

func (u *CategoryUsecase) List(ctx context.Context) ([]CategoryOutput, error) {
	cs, err := u.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	outs := make([]CategoryOutput, 0, len(cs))
	for _, c := range cs {
		outs = append(outs, toCategoryOutput(c))
	}
	return outs, nil
}

func (u *CategoryUsecase) Get(ctx context.Context, id int64) (CategoryOutput, error) {
	c, err := u.find(ctx, id)
	if err != nil {
		return CategoryOutput{}, err
	}
	return toCategoryOutput(c), nil
}

func (u *CategoryUsecase) Create(ctx context.Context, in CategoryInput) (CategoryOutput, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return CategoryOutput{}, NewValidation(map[string]string{"name": "is required"})
	}

	exists, err := u.categoryRepo.ExistsByName(ctx, name)
	if err != nil {
		return CategoryOutput{}, err
	}
	if exists {
		return CategoryOutput{}, duplicateCategory(name)
	}

	c, err := u.categoryRepo.Create(ctx, model.Category{Name: name, Description: in.Description})
	if errors.Is(err, repo.ErrDuplicate) {
		return CategoryOutput{}, duplicateCategory(name)
	}
	if err != nil {
		return CategoryOutput{}, err
	}
	return toCategoryOutput(c), nil
}

// 名前を変えるときだけ重複チェック
func (u *CategoryUsecase) Update(ctx context.Context, id int64, in CategoryInput) (CategoryOutput, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return CategoryOutput{}, NewValidation(map[string]string{"name": "is required"})
	}

	c, err := u.find(ctx, id)
	if err != nil {
		return CategoryOutput{}, err
	}

	if c.Name != name {
		exists, err := u.categoryRepo.ExistsByName(ctx, name)
		if err != nil {
			return CategoryOutput{}, err
		}
		if exists {
			return CategoryOutput{}, duplicateCategory(name)
		}
	}

	c.Name = name
	c.Description = in.Description
	if err := u.categoryRepo.Update(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return CategoryOutput{}, duplicateCategory(name)
		}
		if errors.Is(err, repo.ErrNotFound) {
			return CategoryOutput{}, NewNotFound("Category not found with id: %d", id)
		}
		return CategoryOutput{}, err
	}
	return toCategoryOutput(c), nil
}

// 商品が残っているカテゴリは消さない
func (u *CategoryUsecase) Delete(ctx context.Context, id int64) error {
	if _, err := u.find(ctx, id); err != nil {
		return err
	}

	n, err := u.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return NewBusiness("Category with id %d still has %d products", id, n)
	}

	if err := u.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound("Category not found with id: %d", id)
		}
		return err
	}
	return nil
}

func (u *CategoryUsecase) find(ctx context.Context, id int64) (model.Category, error) {
	c, err := u.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Category{}, NewNotFound("Category not found with id: %d", id)
		}
		return model.Category{}, err
	}
	return c, nil
}

func duplicateCategory(name string) error {
	return NewBusiness("Category with name '%s' already exists", name)
}

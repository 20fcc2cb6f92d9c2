package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	tx           repo.TransactionManager
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
}

// DI
func NewProductUsecase(
	tx repo.TransactionManager,
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
) *ProductUsecase {
	return &ProductUsecase{
		tx:           tx,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// GET /api/productsの入力DTO
type ListProductsInput struct {
	PageInput
	Q          string
	CategoryID *int64
}

type ProductOutput struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int64           `json:"stockQuantity"`
	ImageURL      string          `json:"imageUrl"`
	CategoryID    *int64          `json:"categoryId"`
	CategoryName  string          `json:"categoryName,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type AvailabilityOutput struct {
	ProductID    int64 `json:"productId"`
	Available    bool  `json:"available"`
	CurrentStock int64 `json:"currentStock"`
	Requested    int64 `json:"requested"`
}

type AdminProductInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int64
	ImageURL      string
	CategoryID    *int64
}

func toProductOutput(p model.Product) ProductOutput {
	out := ProductOutput{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		ImageURL:      p.ImageURL,
		CategoryID:    p.CategoryID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Category != nil {
		out.CategoryName = p.Category.Name
	}
	return out
}

func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) (PageOutput[ProductOutput], error) {
	if len(in.Q) > 100 {
		return PageOutput[ProductOutput]{}, NewValidation(map[string]string{"q": "must be at most 100 characters"})
	}
	p := in.normalize()

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		PageRequest: p,
		Q:           strings.TrimSpace(in.Q),
		CategoryID:  in.CategoryID,
	})
	if err != nil {
		return PageOutput[ProductOutput]{}, err
	}

	outs := make([]ProductOutput, 0, len(items))
	for _, it := range items {
		outs = append(outs, toProductOutput(it))
	}
	return newPage(outs, p, total), nil
}

func (u *ProductUsecase) Get(ctx context.Context, productID int64) (ProductOutput, error) {
	p, err := u.find(ctx, productID)
	if err != nil {
		return ProductOutput{}, err
	}
	return toProductOutput(p), nil
}

// 在庫が足りるかだけを返す（減らさない）
func (u *ProductUsecase) CheckAvailability(ctx context.Context, productID int64, qty int64) (AvailabilityOutput, error) {
	if qty < 1 {
		return AvailabilityOutput{}, NewValidation(map[string]string{"quantity": "must be at least 1"})
	}
	p, err := u.find(ctx, productID)
	if err != nil {
		return AvailabilityOutput{}, err
	}
	return AvailabilityOutput{
		ProductID:    p.ID,
		Available:    p.StockQuantity >= qty,
		CurrentStock: p.StockQuantity,
		Requested:    qty,
	}, nil
}

func (u *ProductUsecase) AdminCreate(ctx context.Context, in AdminProductInput) (ProductOutput, error) {
	if err := u.validate(ctx, in); err != nil {
		return ProductOutput{}, err
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		ImageURL:      in.ImageURL,
		CategoryID:    in.CategoryID,
	})
	if err != nil {
		return ProductOutput{}, err
	}
	return u.Get(ctx, p.ID)
}

// 在庫はAdminUpdateStockで変える
func (u *ProductUsecase) AdminUpdate(ctx context.Context, productID int64, in AdminProductInput) (ProductOutput, error) {
	if err := u.validate(ctx, in); err != nil {
		return ProductOutput{}, err
	}

	err := u.productRepo.Update(ctx, model.Product{
		ID:          productID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		CategoryID:  in.CategoryID,
	})
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, NewNotFound("Product not found with id: %d", productID)
	}
	if err != nil {
		return ProductOutput{}, err
	}
	return u.Get(ctx, productID)
}

// 論理削除。カートに残っている明細も消す
func (u *ProductUsecase) AdminDelete(ctx context.Context, productID int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Products().SoftDelete(ctx, productID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFound("Product not found with id: %d", productID)
			}
			return err
		}
		return r.CartItems().DeleteByProductID(ctx, productID)
	})
}

func (u *ProductUsecase) AdminUpdateStock(ctx context.Context, adminUserID int64, productID int64, newStock int64) (ProductOutput, error) {
	if newStock < 0 {
		return ProductOutput{}, NewValidation(map[string]string{"stockQuantity": "must be at least 0"})
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//変更前の在庫（before）
		p, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFound("Product not found with id: %d", productID)
			}
			return err
		}

		//在庫の現在値を更新
		if err := r.Inventory().SetStock(ctx, productID, newStock); err != nil {
			return err
		}

		//監査ログを作成（在庫更新）
		//「誰が」「何を」「どの対象に」「どう変えたか」を残す
		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  adminUserID,
			Action:       model.AuditActionUpdateStock,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			BeforeJSON:   fmt.Sprintf(`{"stockQuantity":%d}`, p.StockQuantity),
			AfterJSON:    fmt.Sprintf(`{"stockQuantity":%d}`, newStock),
			CreatedAt:    time.Now(),
		})
	})
	if err != nil {
		return ProductOutput{}, err
	}
	return u.Get(ctx, productID)
}

func (u *ProductUsecase) validate(ctx context.Context, in AdminProductInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "is required"
	}
	if in.Price.IsNegative() {
		fields["price"] = "must be at least 0"
	}
	if in.StockQuantity < 0 {
		fields["stockQuantity"] = "must be at least 0"
	}
	if len(fields) > 0 {
		return NewValidation(fields)
	}

	if in.CategoryID != nil {
		if _, err := u.categoryRepo.FindByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFound("Category not found with id: %d", *in.CategoryID)
			}
			return err
		}
	}
	return nil
}

func (u *ProductUsecase) find(ctx context.Context, productID int64) (model.Product, error) {
	p, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewNotFound("Product not found with id: %d", productID)
		}
		return model.Product{}, err
	}
	return p, nil
}

package usecase

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	msgCartItemUpdateDenied = "Unauthorized to update this cart item"
	msgCartItemRemoveDenied = "Unauthorized to remove this cart item"
)

// CartUsecase は /api/cart の業務ロジックです。
// カートはユーザーごとの明細の集まりで、ヘッダは持たない。
type CartUsecase struct {
	userRepo     repo.UserRepository
	productRepo  repo.ProductRepository
	cartItemRepo repo.CartItemRepository
}

func NewCartUsecase(
	userRepo repo.UserRepository,
	productRepo repo.ProductRepository,
	cartItemRepo repo.CartItemRepository,
) *CartUsecase {
	return &CartUsecase{
		userRepo:     userRepo,
		productRepo:  productRepo,
		cartItemRepo: cartItemRepo,
	}
}

// 価格は商品の現在価格
type CartItemOutput struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"productId"`
	ProductName     string          `json:"productName"`
	ProductImageURL string          `json:"productImageUrl"`
	ProductPrice    decimal.Decimal `json:"productPrice"`
	Quantity        int64           `json:"quantity"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

type AddCartItemInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

func toCartItemOutput(it model.CartItem, p model.Product) CartItemOutput {
	return CartItemOutput{
		ID:              it.ID,
		ProductID:       it.ProductID,
		ProductName:     p.Name,
		ProductImageURL: p.ImageURL,
		ProductPrice:    p.Price,
		Quantity:        it.Quantity,
		Subtotal:        p.Price.Mul(decimal.NewFromInt(it.Quantity)),
	}
}

// ListItems はカートの中身を返す。空なら空配列
func (u *CartUsecase) ListItems(ctx context.Context, userID int64) ([]CartItemOutput, error) {
	items, err := u.cartItemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]CartItemOutput, 0, len(items))
	for _, it := range items {
		out = append(out, toCartItemOutput(it, it.Product))
	}
	return out, nil
}

// AddItem はカートに追加（同一商品は数量加算）。
// 在庫は今回の数量だけで判定する
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, in AddCartItemInput) (CartItemOutput, error) {
	if in.Quantity < 1 {
		return CartItemOutput{}, NewValidation(map[string]string{"quantity": "must be at least 1"})
	}

	if _, err := u.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartItemOutput{}, NewNotFound("User not found with id: %d", userID)
		}
		return CartItemOutput{}, err
	}

	p, err := u.findProduct(ctx, in.ProductID)
	if err != nil {
		return CartItemOutput{}, err
	}

	if in.Quantity > p.StockQuantity {
		return CartItemOutput{}, NewBusiness("Insufficient stock for product: %s", p.Name)
	}

	existing, err := u.cartItemRepo.FindByUserAndProduct(ctx, userID, p.ID)
	switch {
	case err == nil:
		return u.accumulate(ctx, existing, p, in.Quantity)
	case !errors.Is(err, repo.ErrNotFound):
		return CartItemOutput{}, err
	}

	created, err := u.cartItemRepo.Create(ctx, model.CartItem{
		UserID:    userID,
		ProductID: p.ID,
		Quantity:  in.Quantity,
	})
	if errors.Is(err, repo.ErrDuplicate) {
		// 同時追加で先に行ができていたら加算に回す
		existing, ferr := u.cartItemRepo.FindByUserAndProduct(ctx, userID, p.ID)
		if ferr != nil {
			return CartItemOutput{}, ferr
		}
		return u.accumulate(ctx, existing, p, in.Quantity)
	}
	if err != nil {
		return CartItemOutput{}, err
	}
	return toCartItemOutput(created, p), nil
}

func (u *CartUsecase) accumulate(ctx context.Context, it model.CartItem, p model.Product, qty int64) (CartItemOutput, error) {
	it.Quantity += qty
	if err := u.cartItemRepo.UpdateQuantity(ctx, it.ID, it.Quantity); err != nil {
		return CartItemOutput{}, err
	}
	return toCartItemOutput(it, p), nil
}

// UpdateItem は数量を上書きする（所有チェック＋在庫チェック）。
func (u *CartUsecase) UpdateItem(ctx context.Context, userID int64, cartItemID int64, in UpdateCartItemInput) (CartItemOutput, error) {
	if in.Quantity < 1 {
		return CartItemOutput{}, NewValidation(map[string]string{"quantity": "must be at least 1"})
	}

	it, err := u.findOwnedItem(ctx, userID, cartItemID, msgCartItemUpdateDenied)
	if err != nil {
		return CartItemOutput{}, err
	}

	p, err := u.findProduct(ctx, it.ProductID)
	if err != nil {
		return CartItemOutput{}, err
	}
	if in.Quantity > p.StockQuantity {
		return CartItemOutput{}, NewBusiness("Insufficient stock for product: %s", p.Name)
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, it.ID, in.Quantity); err != nil {
		return CartItemOutput{}, err
	}
	it.Quantity = in.Quantity
	return toCartItemOutput(it, p), nil
}

// RemoveItem は明細を1件削除する
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, cartItemID int64) error {
	it, err := u.findOwnedItem(ctx, userID, cartItemID, msgCartItemRemoveDenied)
	if err != nil {
		return err
	}
	if err := u.cartItemRepo.DeleteByID(ctx, it.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound("Cart item not found with id: %d", cartItemID)
		}
		return err
	}
	return nil
}

// ClearCart は全明細を削除する。空でも成功
func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) error {
	return u.cartItemRepo.DeleteByUserID(ctx, userID)
}

func (u *CartUsecase) findOwnedItem(ctx context.Context, userID int64, cartItemID int64, deniedMsg string) (model.CartItem, error) {
	it, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.CartItem{}, NewNotFound("Cart item not found with id: %d", cartItemID)
		}
		return model.CartItem{}, err
	}
	if it.UserID != userID {
		return model.CartItem{}, NewForbidden(deniedMsg)
	}
	return it, nil
}

func (u *CartUsecase) findProduct(ctx context.Context, productID int64) (model.Product, error) {
	p, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewNotFound("Product not found with id: %d", productID)
		}
		return model.Product{}, err
	}
	return p, nil
}

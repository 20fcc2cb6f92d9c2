package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

const msgOrderAccessDenied = "Unauthorized to access this order"

type OrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository
}

func NewOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository) *OrderUsecase {
	return &OrderUsecase{tx: tx, orders: orders}
}

type CreateOrderInput struct {
	ShippingAddress string
}

// PaymentRefは外部決済の取引ID（任意）
type PayOrderInput struct {
	PaymentRef string
}

type OrderItemOutput struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"productId"`
	ProductName     string          `json:"productName"`
	ProductImageURL string          `json:"productImageUrl"`
	Quantity        int64           `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"userId"`
	Username        string            `json:"username"`
	TotalAmount     decimal.Decimal   `json:"totalAmount"`
	Status          string            `json:"status"`
	IsPaid          bool              `json:"isPaid"`
	PaidAt          *time.Time        `json:"paidAt"`
	PaymentRef      string            `json:"paymentRef,omitempty"`
	ShippingAddress string            `json:"shippingAddress"`
	CreatedAt       time.Time         `json:"createdAt"`
	Items           []OrderItemOutput `json:"orderItems"`
}

func toOrderOutput(o model.Order) OrderOutput {
	items := make([]OrderItemOutput, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemOutput{
			ID:              it.ID,
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			ProductImageURL: it.ProductImageURL,
			Quantity:        it.Quantity,
			Price:           it.UnitPrice,
			Subtotal:        it.Subtotal(),
		})
	}
	return OrderOutput{
		ID:              o.ID,
		UserID:          o.UserID,
		Username:        o.User.Username,
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		IsPaid:          o.IsPaid(),
		PaidAt:          o.PaidAt,
		PaymentRef:      o.PaymentRef,
		ShippingAddress: o.ShippingAddress,
		CreatedAt:       o.CreatedAt,
		Items:           items,
	}
}

func toOrderOutputs(orders []model.Order) []OrderOutput {
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderOutput(o))
	}
	return outs
}

// CreateOrder はカートから注文を作る。
// 全部成功するか、何も残らないか（1トランザクション）
func (u *OrderUsecase) CreateOrder(ctx context.Context, userID int64, in CreateOrderInput) (OrderOutput, error) {
	address := strings.TrimSpace(in.ShippingAddress)
	if address == "" {
		return OrderOutput{}, NewValidation(map[string]string{"shippingAddress": "is required"})
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFound("User not found with id: %d", userID)
			}
			return err
		}

		cartItems, err := r.CartItems().ListByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return NewBusiness("Cart is empty")
		}

		orderItems := make([]model.OrderItem, 0, len(cartItems))
		total := decimal.Zero

		for _, ci := range cartItems {
			p := ci.Product
			// 論理削除済みの商品はPreloadされない
			if p.ID == 0 {
				return NewNotFound("Product not found with id: %d", ci.ProductID)
			}
			if p.StockQuantity < ci.Quantity {
				return NewBusiness("Insufficient stock for product: %s", p.Name)
			}

			//在庫減算（同時注文で足りなくなったら false）
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, p.ID, ci.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return NewBusiness("Insufficient stock for product: %s", p.Name)
			}

			//スナップショット
			line := model.OrderItem{
				ProductID:       p.ID,
				ProductName:     p.Name,
				ProductImageURL: p.ImageURL,
				UnitPrice:       p.Price,
				Quantity:        ci.Quantity,
			}
			orderItems = append(orderItems, line)
			total = total.Add(line.Subtotal())
		}

		// 注文作成（明細も一緒に）
		now := time.Now()
		order := model.Order{
			UserID:          userID,
			ShippingAddress: address,
			TotalAmount:     total,
			Status:          model.OrderStatusPending,
			Items:           orderItems,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := r.Orders().Create(ctx, &order); err != nil {
			return err
		}

		//カートを空にする
		if err := r.CartItems().DeleteByUserID(ctx, userID); err != nil {
			return err
		}

		order.User = *user
		out = toOrderOutput(order)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 自分の注文一覧（新しい順）
func (u *OrderUsecase) GetUserOrders(ctx context.Context, userID int64, in PageInput) (PageOutput[OrderOutput], error) {
	p := in.normalize()

	orders, total, err := u.orders.ListByUserID(ctx, userID, p)
	if err != nil {
		return PageOutput[OrderOutput]{}, err
	}
	return newPage(toOrderOutputs(orders), p, total), nil
}

// 注文詳細（本人のみ）
func (u *OrderUsecase) GetOrderByID(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	o, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return OrderOutput{}, NewNotFound("Order not found with id: %d", orderID)
		}
		return OrderOutput{}, err
	}

	if o.UserID != userID {
		return OrderOutput{}, NewForbidden(msgOrderAccessDenied)
	}
	return toOrderOutput(o), nil
}

// PayOrder は本人の注文を支払い済みにする。決済そのものは外部で済んでいる前提
func (u *OrderUsecase) PayOrder(ctx context.Context, userID int64, orderID int64, in PayOrderInput) (OrderOutput, error) {
	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFound("Order not found with id: %d", orderID)
			}
			return err
		}
		if o.UserID != userID {
			return NewForbidden(msgOrderAccessDenied)
		}
		if o.Status == model.OrderStatusCancelled {
			return NewBusiness("Cannot pay for a %s order", o.Status)
		}
		if o.IsPaid() {
			return NewBusiness("Order is already paid")
		}

		// 読んだ後に支払い・キャンセルされていたら競合
		now := time.Now()
		ref := strings.TrimSpace(in.PaymentRef)
		if err := r.Orders().MarkPaidIf(ctx, orderID, now, ref); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return NewConflict(err)
			}
			return err
		}

		o.PaidAt = &now
		o.PaymentRef = ref
		out = toOrderOutput(o)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

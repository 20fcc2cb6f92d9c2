package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type AdminOrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository
}

func NewAdminOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, orders: orders}
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

// 全ユーザーの注文一覧（新しい順）
func (u *AdminOrderUsecase) List(ctx context.Context, in PageInput) (PageOutput[OrderOutput], error) {
	p := in.normalize()

	orders, total, err := u.orders.ListAll(ctx, p)
	if err != nil {
		return PageOutput[OrderOutput]{}, err
	}
	return newPage(toOrderOutputs(orders), p, total), nil
}

// ステータス更新（CANCELLED なら在庫戻し）
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID int64, in AdminUpdateOrderStatusInput) (OrderOutput, error) {
	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 注文取得
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFound("Order not found with id: %d", orderID)
			}
			return err
		}

		newStatus, ok := model.ParseOrderStatus(in.Status)
		if !ok {
			return NewBusiness("Invalid order status: %s", in.Status)
		}

		// すでに同じなら何もしない
		if o.Status == newStatus {
			out = toOrderOutput(o)
			return nil
		}
		// 終端ガード
		if o.Status.IsFinal() {
			return NewBusiness("Cannot change status of a %s order", o.Status)
		}

		// 読んだときのステータスのままなら更新
		if err := r.Orders().UpdateStatusIf(ctx, orderID, o.Status, newStatus); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return NewConflict(err)
			}
			return err
		}

		// newStatusがCANCELLEDのときだけ在庫戻し
		if newStatus == model.OrderStatusCancelled {
			for _, it := range o.Items {
				if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
		}

		// 監査ログ（UPDATE_ORDER_STATUS）
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   fmt.Sprintf(`{"status":%q}`, o.Status),
			AfterJSON:    fmt.Sprintf(`{"status":%q}`, newStatus),
			CreatedAt:    time.Now(),
		}); err != nil {
			return err
		}

		o.Status = newStatus
		out = toOrderOutput(o)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

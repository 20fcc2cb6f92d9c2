package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

type OrderRepository interface {
	// 明細ごと保存する。IDが埋まる
	Create(ctx context.Context, order *model.Order) error
	// 明細とユーザー付きで返す
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// created_at降順
	ListByUserID(ctx context.Context, userID int64, p PageRequest) ([]model.Order, int64, error)
	// 管理者用の注文一覧（created_at降順）
	ListAll(ctx context.Context, p PageRequest) ([]model.Order, int64, error)
	// 現在のステータスがfromのときだけ更新する。0件ならErrConflict
	UpdateStatusIf(ctx context.Context, orderID int64, from model.OrderStatus, to model.OrderStatus) error
	// 未払いかつ未キャンセルのときだけ支払い済みにする。0件ならErrConflict
	MarkPaidIf(ctx context.Context, orderID int64, paidAt time.Time, paymentRef string) error
}

package repository

import "context"

// 商品の在庫数だけを扱う。注文・キャンセル・管理者の在庫更新から使う
type InventoryRepository interface {
	// 足りなければfalse（減らさない）
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)
	IncreaseStock(ctx context.Context, productID int64, qty int64) error
	// 対象がなければErrNotFound
	SetStock(ctx context.Context, productID int64, newStock int64) error
}

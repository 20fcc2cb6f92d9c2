package model

import "github.com/shopspring/decimal"

// 注文時点の商品名・画像・単価のスナップショット。後から商品を読み直さない。
type OrderItem struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	OrderID         int64           `gorm:"not null;index"`
	ProductID       int64           `gorm:"not null;index"`
	ProductName     string          `gorm:"type:varchar(255);not null"`
	ProductImageURL string          `gorm:"type:varchar(512)"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Quantity        int64           `gorm:"not null"`
}

// Subtotal は単価 × 数量
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

package model

import "time"

// カートの明細。(user, product) で一意。
// 価格は持たない（表示時に商品の現在価格を読む）
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID int64     `gorm:"not null;uniqueIndex:idx_cart_user_product;index"`
	Product   Product   `gorm:"foreignKey:ProductID"`
	Quantity  int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`
}

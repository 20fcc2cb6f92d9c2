package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	Name          string          `gorm:"type:varchar(255);not null"`
	Description   string          `gorm:"type:text"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	StockQuantity int64           `gorm:"not null;default:0"`
	ImageURL      string          `gorm:"type:varchar(512)"`
	CategoryID    *int64          `gorm:"index"`
	Category      *Category       `gorm:"foreignKey:CategoryID"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"not null;autoUpdateTime"`
	DeletedAt     gorm.DeletedAt  `gorm:"index"`
}

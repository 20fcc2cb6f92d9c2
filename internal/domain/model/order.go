package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ParseOrderStatus は大文字小文字を区別せずにステータスを解釈する
func ParseOrderStatus(s string) (OrderStatus, bool) {
	v := strings.ToUpper(strings.TrimSpace(s))
	for _, st := range orderStatuses {
		if string(st) == v {
			return st, true
		}
	}
	return "", false
}

// 終端ステータスからは変更できない
func (s OrderStatus) IsFinal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type Order struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	UserID          int64           `gorm:"not null;index"`
	User            User            `gorm:"foreignKey:UserID"`
	ShippingAddress string          `gorm:"type:text;not null"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;index"`
	PaidAt          *time.Time      `gorm:"index"`
	PaymentRef      string          `gorm:"type:varchar(255);not null;default:''"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time       `gorm:"not null;index"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

func (o Order) IsPaid() bool {
	return o.PaidAt != nil
}

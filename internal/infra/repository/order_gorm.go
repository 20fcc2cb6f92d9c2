package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

// 明細も一緒にINSERTされる
func (r *OrderGormRepository) Create(ctx context.Context, order *model.Order) error {
	return mapErr(r.db.WithContext(ctx).Omit("User").Create(order).Error)
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("User").
		Where("id = ?", orderID).
		First(&o).Error
	if err != nil {
		return model.Order{}, mapErr(err)
	}
	return o, nil
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64, p repo.PageRequest) ([]model.Order, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("user_id = ?", userID), p)
}

func (r *OrderGormRepository) ListAll(ctx context.Context, p repo.PageRequest) ([]model.Order, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx), p)
}

func (r *OrderGormRepository) list(ctx context.Context, q *gorm.DB, p repo.PageRequest) ([]model.Order, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Model(&model.Order{}).Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	err := q.Session(&gorm.Session{}).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("User").
		Order("created_at desc").
		Order("id desc").
		Limit(p.Size).
		Offset(p.Offset()).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

// 読んだ時点のステータスのままなら更新する
func (r *OrderGormRepository) UpdateStatusIf(ctx context.Context, orderID int64, from model.OrderStatus, to model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrConflict
	}
	return nil
}

func (r *OrderGormRepository) MarkPaidIf(ctx context.Context, orderID int64, paidAt time.Time, paymentRef string) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND paid_at IS NULL AND status <> ?", orderID, model.OrderStatusCancelled).
		Updates(map[string]interface{}{
			"paid_at":     paidAt,
			"payment_ref": paymentRef,
			"updated_at":  paidAt,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrConflict
	}
	return nil
}

// Package testutil はテスト用のSQLite DBと初期データを用意する。
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/infra/db"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var seq atomic.Int64

// NewDB はテストごとに独立したインメモリDBを返す（migrate済み）
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=1", name, seq.Add(1))

	gdb, err := db.OpenSQLite(dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

// SeedRoles はUSER/ADMINを入れて名前で引けるようにする
func SeedRoles(t testing.TB, gdb *gorm.DB) map[model.RoleName]model.Role {
	t.Helper()

	out := map[model.RoleName]model.Role{}
	for _, n := range []model.RoleName{model.RoleUser, model.RoleAdmin} {
		r := model.Role{Name: n}
		require.NoError(t, gdb.Create(&r).Error)
		out[n] = r
	}
	return out
}

// CreateUser はパスワードハッシュを固定値にしたユーザーを作る
func CreateUser(t testing.TB, gdb *gorm.DB, username string, roles ...model.Role) model.User {
	t.Helper()

	now := time.Now()
	u := model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

func CreateCategory(t testing.TB, gdb *gorm.DB, name string) model.Category {
	t.Helper()

	c := model.Category{Name: name, Description: name + " items"}
	require.NoError(t, gdb.Create(&c).Error)
	return c
}

func CreateProduct(t testing.TB, gdb *gorm.DB, name string, price string, stock int64, categoryID *int64) model.Product {
	t.Helper()

	p := model.Product{
		Name:          name,
		Description:   name + " description",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		ImageURL:      "https://example.com/" + strings.ToLower(name) + ".png",
		CategoryID:    categoryID,
	}
	require.NoError(t, gdb.Omit("Category").Create(&p).Error)
	return p
}

func AddToCart(t testing.TB, gdb *gorm.DB, userID int64, productID int64, qty int64) model.CartItem {
	t.Helper()

	it := model.CartItem{UserID: userID, ProductID: productID, Quantity: qty}
	require.NoError(t, gdb.Omit("Product").Create(&it).Error)
	return it
}

// StockOf は論理削除も含めて在庫を読む
func StockOf(t testing.TB, gdb *gorm.DB, productID int64) int64 {
	t.Helper()

	var p model.Product
	require.NoError(t, gdb.Unscoped().First(&p, productID).Error)
	return p.StockQuantity
}

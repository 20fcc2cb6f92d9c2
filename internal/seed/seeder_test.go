package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"storefront/internal/domain/model"
	infrarepo "storefront/internal/infra/repository"
	"storefront/internal/testutil"
	"storefront/internal/usecase/auth"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeeder(t *testing.T, f Fixtures) (*Seeder, func(dst interface{}) int64) {
	t.Helper()
	gdb := testutil.NewDB(t)
	s := NewSeeder(infrarepo.NewTxManagerGorm(gdb), auth.NewBcryptPasswordHasher(4), f, zerolog.Nop())

	count := func(dst interface{}) int64 {
		var n int64
		require.NoError(t, gdb.Model(dst).Count(&n).Error)
		return n
	}
	return s, count
}

func TestDefaultFixtures(t *testing.T) {
	f, err := LoadFixtures("")
	require.NoError(t, err)

	assert.Equal(t, "admin", f.Admin.Username)
	assert.Equal(t, "admin@ecommerce.com", f.Admin.Email)
	assert.Len(t, f.Categories, 4)
	assert.Len(t, f.Products, 6)
}

func TestSeeder_FreshDatabaseThenIdempotent(t *testing.T) {
	ctx := context.Background()
	f, err := LoadFixtures("")
	require.NoError(t, err)
	s, count := newSeeder(t, f)

	res, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Roles: 2, Admin: true, Categories: 4, Products: 6}, res)

	assert.Equal(t, int64(2), count(&model.Role{}))
	assert.Equal(t, int64(1), count(&model.User{}))
	assert.Equal(t, int64(4), count(&model.Category{}))
	assert.Equal(t, int64(6), count(&model.Product{}))

	// 2回目は何も増えない
	res, err = s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
	assert.Equal(t, int64(2), count(&model.Role{}))
	assert.Equal(t, int64(1), count(&model.User{}))
	assert.Equal(t, int64(6), count(&model.Product{}))
}

// 管理者が商品を全部消しても、再起動でサンプル商品は戻らない
func TestSeeder_DoesNotRestoreSoftDeletedProducts(t *testing.T) {
	ctx := context.Background()
	f, err := LoadFixtures("")
	require.NoError(t, err)

	gdb := testutil.NewDB(t)
	s := NewSeeder(infrarepo.NewTxManagerGorm(gdb), auth.NewBcryptPasswordHasher(4), f, zerolog.Nop())
	_, err = s.Run(ctx)
	require.NoError(t, err)

	var ids []int64
	require.NoError(t, gdb.Model(&model.Product{}).Pluck("id", &ids).Error)
	require.Len(t, ids, 6)
	products := infrarepo.NewProductGormRepository(gdb)
	for _, id := range ids {
		require.NoError(t, products.SoftDelete(ctx, id))
	}

	res, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	live, err := products.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), live)
	all, err := products.CountIncludingDeleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), all)
}

func TestSeeder_AdminHasBothRolesAndHashedPassword(t *testing.T) {
	ctx := context.Background()
	f, err := LoadFixtures("")
	require.NoError(t, err)

	gdb := testutil.NewDB(t)
	s := NewSeeder(infrarepo.NewTxManagerGorm(gdb), auth.NewBcryptPasswordHasher(4), f, zerolog.Nop())
	_, err = s.Run(ctx)
	require.NoError(t, err)

	admin, err := infrarepo.NewUserGormRepository(gdb).FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, admin.HasRole(model.RoleAdmin))
	assert.True(t, admin.HasRole(model.RoleUser))
	assert.NotEqual(t, "admin123", admin.PasswordHash)
	assert.True(t, auth.NewBcryptPasswordVerifier().Verify("admin123", admin.PasswordHash))
}

func TestSeeder_SkipsProductWithUnknownCategory(t *testing.T) {
	f, err := ParseFixtures([]byte(`
admin:
  username: root
  email: root@example.com
  password: rootpass
categories:
  - name: Books
products:
  - name: Novel
    price: "12.50"
    stock: 3
    category: Books
  - name: Orphan
    price: "1.00"
    stock: 1
    category: Nowhere
`))
	require.NoError(t, err)
	s, count := newSeeder(t, f)

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Products)
	assert.Equal(t, int64(1), count(&model.Product{}))
}

func TestParseFixtures_Invalid(t *testing.T) {
	_, err := ParseFixtures([]byte("admin:\n  username: x\n"))
	assert.Error(t, err)

	_, err = ParseFixtures([]byte(`
admin: {username: a, email: a@example.com, password: p}
products:
  - name: Bad
    price: abc
`))
	assert.Error(t, err)
}

func TestLoadFixtures_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("admin: {username: a, email: a@example.com, password: p}\n"), 0o600))

	f, err := LoadFixtures(path)
	require.NoError(t, err)
	assert.Equal(t, "a", f.Admin.Username)
	assert.Empty(t, f.Products)

	_, err = LoadFixtures(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

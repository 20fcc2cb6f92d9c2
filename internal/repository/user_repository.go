package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// ユーザーの保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（Rolesも一緒に保存）
	Create(ctx context.Context, user *model.User) error
	// IDから1件取得する（Roles付き）
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	// usernameから1件取得する（Roles付き）
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// 一覧（id昇順）
	List(ctx context.Context, p PageRequest) ([]model.User, int64, error)
	Count(ctx context.Context) (int64, error)
	// ロールを丸ごと置き換える
	ReplaceRoles(ctx context.Context, userID int64, roles []model.Role) error
	// emailとパスワードハッシュを書き換える。emailの重複はErrDuplicate
	UpdateAccount(ctx context.Context, userID int64, email string, passwordHash string) error
}

// ロール参照データ
type RoleRepository interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, role *model.Role) error
	FindByName(ctx context.Context, name model.RoleName) (model.Role, error)
}

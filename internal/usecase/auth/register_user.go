package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
	"storefront/internal/usecase"
)

const (
	MsgUsernameTaken = "Username is already taken!"
	MsgEmailInUse    = "Email is already in use!"
	MsgRoleNotFound  = "Error: Role is not found."
)

// 会員登録の入力
type RegisterUserInput struct {
	Username string
	Email    string
	Password string
}

// 会員登録の出力
type RegisterUserOutput struct {
	User model.User
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	hasher   PasswordHasher
	clock    Clock
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	hasher PasswordHasher,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo: userRepo,
		roleRepo: roleRepo,
		hasher:   hasher,
		clock:    clock,
	}
}

func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	//重複チェック
	taken, err := u.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return RegisterUserOutput{}, err
	}
	if taken {
		return RegisterUserOutput{}, usecase.NewBusiness(MsgUsernameTaken)
	}

	inUse, err := u.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return RegisterUserOutput{}, err
	}
	if inUse {
		return RegisterUserOutput{}, usecase.NewBusiness(MsgEmailInUse)
	}

	//USERロールは初期データで入っている前提
	role, err := u.roleRepo.FindByName(ctx, model.RoleUser)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return RegisterUserOutput{}, usecase.NewBusiness(MsgRoleNotFound)
		}
		return RegisterUserOutput{}, err
	}

	//パスワードハッシュ
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return RegisterUserOutput{}, err
	}

	now := u.clock.Now()
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Roles:        []model.Role{role},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		// 同時登録で一意制約に当たったとき
		if errors.Is(err, repository.ErrDuplicate) {
			return RegisterUserOutput{}, u.duplicateError(ctx, username)
		}
		return RegisterUserOutput{}, err
	}

	return RegisterUserOutput{User: *user}, nil
}

func (u *RegisterUserUsecase) duplicateError(ctx context.Context, username string) error {
	if taken, err := u.userRepo.ExistsByUsername(ctx, username); err == nil && taken {
		return usecase.NewBusiness(MsgUsernameTaken)
	}
	return usecase.NewBusiness(MsgEmailInUse)
}

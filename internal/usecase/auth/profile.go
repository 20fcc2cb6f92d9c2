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

const MsgCurrentPasswordWrong = "Current password is incorrect"

// ログイン中ユーザー自身の情報。パスワードハッシュは含めない
type ProfileOutput struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// 空の項目は変更しない。
// usernameはトークンの主体なので変更対象にしない
type UpdateProfileInput struct {
	Email           string
	CurrentPassword string
	NewPassword     string
}

type ProfileUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	verifier PasswordVerifier
}

func NewProfileUsecase(userRepo repository.UserRepository, hasher PasswordHasher, verifier PasswordVerifier) *ProfileUsecase {
	return &ProfileUsecase{userRepo: userRepo, hasher: hasher, verifier: verifier}
}

func toProfileOutput(u model.User) ProfileOutput {
	return ProfileOutput{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Roles:     u.RoleNames(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (u *ProfileUsecase) Get(ctx context.Context, userID int64) (ProfileOutput, error) {
	user, err := u.find(ctx, userID)
	if err != nil {
		return ProfileOutput{}, err
	}
	return toProfileOutput(*user), nil
}

// Update はemailとパスワードを変更する。
// パスワード変更には現在のパスワードが必要
func (u *ProfileUsecase) Update(ctx context.Context, userID int64, in UpdateProfileInput) (ProfileOutput, error) {
	user, err := u.find(ctx, userID)
	if err != nil {
		return ProfileOutput{}, err
	}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		email = user.Email
	}

	hashed := user.PasswordHash
	if in.NewPassword != "" {
		if !u.verifier.Verify(in.CurrentPassword, user.PasswordHash) {
			return ProfileOutput{}, usecase.NewBusiness(MsgCurrentPasswordWrong)
		}
		if hashed, err = u.hasher.Hash(in.NewPassword); err != nil {
			return ProfileOutput{}, err
		}
	}

	// 変更なし
	if email == user.Email && hashed == user.PasswordHash {
		return toProfileOutput(*user), nil
	}

	if email != user.Email {
		inUse, err := u.userRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return ProfileOutput{}, err
		}
		if inUse {
			return ProfileOutput{}, usecase.NewBusiness(MsgEmailInUse)
		}
	}

	if err := u.userRepo.UpdateAccount(ctx, userID, email, hashed); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			// 同時変更で一意制約に当たったとき
			return ProfileOutput{}, usecase.NewBusiness(MsgEmailInUse)
		case errors.Is(err, repository.ErrNotFound):
			return ProfileOutput{}, usecase.NewNotFound("User not found with id: %d", userID)
		}
		return ProfileOutput{}, err
	}

	return u.Get(ctx, userID)
}

func (u *ProfileUsecase) find(ctx context.Context, userID int64) (*model.User, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, usecase.NewNotFound("User not found with id: %d", userID)
		}
		return nil, err
	}
	return user, nil
}

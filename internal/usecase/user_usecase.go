package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

const msgRoleNotFound = "Error: Role is not found."

// 受け付けるロール表記（小文字化して比較）
var roleLabels = map[string]model.RoleName{
	"user":       model.RoleUser,
	"role_user":  model.RoleUser,
	"admin":      model.RoleAdmin,
	"role_admin": model.RoleAdmin,
}

type UserUsecase struct {
	tx       repo.TransactionManager
	userRepo repo.UserRepository
}

func NewUserUsecase(tx repo.TransactionManager, userRepo repo.UserRepository) *UserUsecase {
	return &UserUsecase{tx: tx, userRepo: userRepo}
}

// パスワードハッシュは含めない
type UserOutput struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

type UpdateRolesInput struct {
	Roles []string
}

func toUserOutput(u model.User) UserOutput {
	return UserOutput{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Roles:     u.RoleNames(),
		CreatedAt: u.CreatedAt,
	}
}

func (u *UserUsecase) List(ctx context.Context, in PageInput) (PageOutput[UserOutput], error) {
	p := in.normalize()

	users, total, err := u.userRepo.List(ctx, p)
	if err != nil {
		return PageOutput[UserOutput]{}, err
	}
	outs := make([]UserOutput, 0, len(users))
	for _, it := range users {
		outs = append(outs, toUserOutput(it))
	}
	return newPage(outs, p, total), nil
}

func (u *UserUsecase) Get(ctx context.Context, userID int64) (UserOutput, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return UserOutput{}, NewNotFound("User not found with id: %d", userID)
		}
		return UserOutput{}, err
	}
	return toUserOutput(*user), nil
}

// ParseRoleLabels は表記ゆれを吸収してロール名にする。知らない表記はエラー
func ParseRoleLabels(labels []string) ([]model.RoleName, error) {
	if len(labels) == 0 {
		return nil, NewValidation(map[string]string{"roles": "must not be empty"})
	}

	seen := map[model.RoleName]bool{}
	var names []model.RoleName
	for _, l := range labels {
		name, ok := roleLabels[strings.ToLower(strings.TrimSpace(l))]
		if !ok {
			return nil, NewValidation(map[string]string{"roles": "unknown role: " + l})
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}

// UpdateRoles はロールを丸ごと置き換える
func (u *UserUsecase) UpdateRoles(ctx context.Context, actorUserID int64, userID int64, in UpdateRolesInput) (UserOutput, error) {
	names, err := ParseRoleLabels(in.Roles)
	if err != nil {
		return UserOutput{}, err
	}

	var out UserOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFound("User not found with id: %d", userID)
			}
			return err
		}
		before := user.RoleNames()

		roles := make([]model.Role, 0, len(names))
		for _, n := range names {
			role, err := r.Roles().FindByName(ctx, n)
			if err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return NewBusiness(msgRoleNotFound)
				}
				return err
			}
			roles = append(roles, role)
		}

		if err := r.Users().ReplaceRoles(ctx, userID, roles); err != nil {
			return err
		}
		user.Roles = roles

		beforeJSON, err := json.Marshal(map[string][]string{"roles": before})
		if err != nil {
			return err
		}
		afterJSON, err := json.Marshal(map[string][]string{"roles": user.RoleNames()})
		if err != nil {
			return err
		}
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorUserID,
			Action:       model.AuditActionUpdateUserRoles,
			ResourceType: model.AuditResourceUser,
			ResourceID:   userID,
			BeforeJSON:   string(beforeJSON),
			AfterJSON:    string(afterJSON),
			CreatedAt:    time.Now(),
		}); err != nil {
			return err
		}

		out = toUserOutput(*user)
		return nil
	})
	if err != nil {
		return UserOutput{}, err
	}
	return out, nil
}

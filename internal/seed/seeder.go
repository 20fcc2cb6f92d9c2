package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase/auth"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// 各ステップで何件入れたか
type Result struct {
	Roles      int
	Admin      bool
	Categories int
	Products   int
}

// Seeder は初期データを投入する。
// 各ステップは既存データがあれば何もしないので、何度実行してもよい
type Seeder struct {
	tx       repo.TransactionManager
	hasher   auth.PasswordHasher
	fixtures Fixtures
	logger   zerolog.Logger
}

func NewSeeder(tx repo.TransactionManager, hasher auth.PasswordHasher, fixtures Fixtures, logger zerolog.Logger) *Seeder {
	return &Seeder{tx: tx, hasher: hasher, fixtures: fixtures, logger: logger}
}

func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result

	steps := []struct {
		name string
		fn   func(ctx context.Context, r repo.TxRepos, res *Result) error
	}{
		{"roles", s.seedRoles},
		{"admin", s.seedAdmin},
		{"categories", s.seedCategories},
		{"products", s.seedProducts},
	}

	for _, st := range steps {
		err := s.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			return st.fn(ctx, r, &res)
		})
		if err != nil {
			return res, fmt.Errorf("seed %s: %w", st.name, err)
		}
	}

	s.logger.Info().
		Int("roles", res.Roles).
		Bool("admin", res.Admin).
		Int("categories", res.Categories).
		Int("products", res.Products).
		Msg("seed completed")
	return res, nil
}

func (s *Seeder) seedRoles(ctx context.Context, r repo.TxRepos, res *Result) error {
	n, err := r.Roles().Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	for _, name := range []model.RoleName{model.RoleUser, model.RoleAdmin} {
		if err := r.Roles().Create(ctx, &model.Role{Name: name}); err != nil {
			return err
		}
		res.Roles++
	}
	s.logger.Info().Msg("roles initialized")
	return nil
}

func (s *Seeder) seedAdmin(ctx context.Context, r repo.TxRepos, res *Result) error {
	a := s.fixtures.Admin
	exists, err := r.Users().ExistsByUsername(ctx, a.Username)
	if err != nil || exists {
		return err
	}

	adminRole, err := r.Roles().FindByName(ctx, model.RoleAdmin)
	if err != nil {
		return roleErr("Admin", err)
	}
	userRole, err := r.Roles().FindByName(ctx, model.RoleUser)
	if err != nil {
		return roleErr("User", err)
	}

	hashed, err := s.hasher.Hash(a.Password)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := r.Users().Create(ctx, &model.User{
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: hashed,
		Roles:        []model.Role{adminRole, userRole},
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return err
	}
	res.Admin = true
	s.logger.Info().Str("username", a.Username).Msg("admin user created")
	return nil
}

func (s *Seeder) seedCategories(ctx context.Context, r repo.TxRepos, res *Result) error {
	n, err := r.Categories().Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	for _, c := range s.fixtures.Categories {
		if _, err := r.Categories().Create(ctx, model.Category{Name: c.Name, Description: c.Description}); err != nil {
			return err
		}
		res.Categories++
	}
	s.logger.Info().Int("count", res.Categories).Msg("categories initialized")
	return nil
}

// カテゴリが見つからない商品は飛ばす。
// 管理者が全部消した後に復活しないよう、削除済みの行も数える
func (s *Seeder) seedProducts(ctx context.Context, r repo.TxRepos, res *Result) error {
	n, err := r.Products().CountIncludingDeleted(ctx)
	if err != nil || n > 0 {
		return err
	}

	for _, p := range s.fixtures.Products {
		c, err := r.Categories().FindByName(ctx, p.Category)
		if errors.Is(err, repo.ErrNotFound) {
			s.logger.Warn().Str("product", p.Name).Str("category", p.Category).Msg("category missing, product skipped")
			continue
		}
		if err != nil {
			return err
		}

		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return err
		}

		categoryID := c.ID
		if _, err := r.Products().Create(ctx, model.Product{
			Name:          p.Name,
			Description:   p.Description,
			Price:         price,
			StockQuantity: p.Stock,
			ImageURL:      p.ImageURL,
			CategoryID:    &categoryID,
		}); err != nil {
			return err
		}
		res.Products++
	}
	s.logger.Info().Int("count", res.Products).Msg("sample products initialized")
	return nil
}

func roleErr(label string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("%s Role not found", label)
	}
	return err
}

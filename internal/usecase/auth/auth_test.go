package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
	"storefront/internal/repository/mocks"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

type fakeVerifier struct{}

func (fakeVerifier) Verify(plain string, hashed string) bool { return hashed == "hashed:"+plain }

type fakeIssuer struct {
	gotUsername string
	gotRoles    []string
}

func (f *fakeIssuer) Issue(username string, roles []string, now time.Time) (string, time.Time, error) {
	f.gotUsername = username
	f.gotRoles = roles
	return "token-" + username, now.Add(time.Hour), nil
}

var now = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.UserRepository)
	roles := new(mocks.RoleRepository)
	uc := NewRegisterUserUsecase(users, roles, fakeHasher{}, fixedClock{now})

	userRole := model.Role{ID: 1, Name: model.RoleUser}
	users.On("ExistsByUsername", ctx, "alice").Return(false, nil)
	users.On("ExistsByEmail", ctx, "alice@example.com").Return(false, nil)
	roles.On("FindByName", ctx, model.RoleUser).Return(userRole, nil)
	users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
		return u.Username == "alice" && u.PasswordHash == "hashed:secret1" &&
			len(u.Roles) == 1 && u.Roles[0].Name == model.RoleUser && u.CreatedAt.Equal(now)
	})).Return(nil)

	out, err := uc.Execute(ctx, RegisterUserInput{Username: " alice ", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", out.User.Username)
	users.AssertExpectations(t)
}

func TestRegister_Duplicates(t *testing.T) {
	ctx := context.Background()

	t.Run("username", func(t *testing.T) {
		users := new(mocks.UserRepository)
		uc := NewRegisterUserUsecase(users, new(mocks.RoleRepository), fakeHasher{}, fixedClock{now})
		users.On("ExistsByUsername", ctx, "alice").Return(true, nil)

		_, err := uc.Execute(ctx, RegisterUserInput{Username: "alice", Email: "a@example.com", Password: "secret1"})
		ue, ok := usecase.AsError(err)
		require.True(t, ok)
		assert.Equal(t, usecase.KindBusiness, ue.Kind)
		assert.Equal(t, MsgUsernameTaken, ue.Message)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("email", func(t *testing.T) {
		users := new(mocks.UserRepository)
		uc := NewRegisterUserUsecase(users, new(mocks.RoleRepository), fakeHasher{}, fixedClock{now})
		users.On("ExistsByUsername", ctx, "bob").Return(false, nil)
		users.On("ExistsByEmail", ctx, "a@example.com").Return(true, nil)

		_, err := uc.Execute(ctx, RegisterUserInput{Username: "bob", Email: "a@example.com", Password: "secret1"})
		ue, ok := usecase.AsError(err)
		require.True(t, ok)
		assert.Equal(t, MsgEmailInUse, ue.Message)
	})

	t.Run("unique index race", func(t *testing.T) {
		users := new(mocks.UserRepository)
		roles := new(mocks.RoleRepository)
		uc := NewRegisterUserUsecase(users, roles, fakeHasher{}, fixedClock{now})
		users.On("ExistsByUsername", ctx, "carol").Return(false, nil).Once()
		users.On("ExistsByEmail", ctx, "c@example.com").Return(false, nil)
		roles.On("FindByName", ctx, model.RoleUser).Return(model.Role{ID: 1, Name: model.RoleUser}, nil)
		users.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicate)
		users.On("ExistsByUsername", ctx, "carol").Return(true, nil).Once()

		_, err := uc.Execute(ctx, RegisterUserInput{Username: "carol", Email: "c@example.com", Password: "secret1"})
		ue, ok := usecase.AsError(err)
		require.True(t, ok)
		assert.Equal(t, MsgUsernameTaken, ue.Message)
	})
}

func TestRegister_RoleMissing(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.UserRepository)
	roles := new(mocks.RoleRepository)
	uc := NewRegisterUserUsecase(users, roles, fakeHasher{}, fixedClock{now})

	users.On("ExistsByUsername", ctx, "dave").Return(false, nil)
	users.On("ExistsByEmail", ctx, "d@example.com").Return(false, nil)
	roles.On("FindByName", ctx, model.RoleUser).Return(model.Role{}, repository.ErrNotFound)

	_, err := uc.Execute(ctx, RegisterUserInput{Username: "dave", Email: "d@example.com", Password: "secret1"})
	ue, ok := usecase.AsError(err)
	require.True(t, ok)
	assert.Equal(t, MsgRoleNotFound, ue.Message)
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.UserRepository)
	issuer := &fakeIssuer{}
	uc := NewLoginUsecase(users, fakeVerifier{}, issuer, fixedClock{now})

	users.On("FindByUsername", ctx, "admin").Return(&model.User{
		ID:           1,
		Username:     "admin",
		Email:        "admin@ecommerce.com",
		PasswordHash: "hashed:admin123",
		Roles:        []model.Role{{Name: model.RoleUser}, {Name: model.RoleAdmin}},
	}, nil)

	out, err := uc.Execute(ctx, LoginInput{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "token-admin", out.Token)
	assert.Equal(t, "Bearer", out.Type)
	assert.Equal(t, []string{"USER", "ADMIN"}, out.Roles)
	assert.Equal(t, now.Add(time.Hour), out.ExpiresAt)
	assert.Equal(t, "admin", issuer.gotUsername)
}

func TestLogin_BadCredentials(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.UserRepository)
	uc := NewLoginUsecase(users, fakeVerifier{}, &fakeIssuer{}, fixedClock{now})

	users.On("FindByUsername", ctx, "admin").Return(&model.User{Username: "admin", PasswordHash: "hashed:admin123"}, nil)
	users.On("FindByUsername", ctx, "ghost").Return(nil, repository.ErrNotFound)

	for _, in := range []LoginInput{
		{Username: "admin", Password: "wrong"},
		{Username: "ghost", Password: "admin123"},
	} {
		_, err := uc.Execute(ctx, in)
		ue, ok := usecase.AsError(err)
		require.True(t, ok)
		// どちらが違うかは区別しない
		assert.Equal(t, usecase.KindUnauthorized, ue.Kind)
		assert.Equal(t, usecase.MsgInvalidCredentials, ue.Message)
	}
}

func TestLogin_RepositoryFailure(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.UserRepository)
	uc := NewLoginUsecase(users, fakeVerifier{}, &fakeIssuer{}, fixedClock{now})
	boom := errors.New("db down")

	users.On("FindByUsername", ctx, "admin").Return(nil, boom)

	_, err := uc.Execute(ctx, LoginInput{Username: "admin", Password: "x"})
	assert.ErrorIs(t, err, boom)
	_, classified := usecase.AsError(err)
	assert.False(t, classified)
}

func TestBcrypt_HashAndVerify(t *testing.T) {
	h := NewBcryptPasswordHasher(4)
	v := NewBcryptPasswordVerifier()

	hashed, err := h.Hash("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hashed)
	assert.True(t, v.Verify("admin123", hashed))
	assert.False(t, v.Verify("admin124", hashed))
}

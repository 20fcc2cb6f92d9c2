package usecase

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	infrarepo "storefront/internal/infra/repository"
	repo "storefront/internal/repository"
	"storefront/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoleLabels(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []model.RoleName
		wantErr bool
	}{
		{name: "plain", in: []string{"user"}, want: []model.RoleName{model.RoleUser}},
		{name: "prefixed and mixed case", in: []string{"ROLE_ADMIN", "Role_User"}, want: []model.RoleName{model.RoleAdmin, model.RoleUser}},
		{name: "dedup", in: []string{"admin", "role_admin"}, want: []model.RoleName{model.RoleAdmin}},
		{name: "empty", in: nil, wantErr: true},
		{name: "unknown", in: []string{"superuser"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRoleLabels(tt.in)
			if tt.wantErr {
				assert.True(t, IsKind(err, KindValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpdateRoles_ReplacesAndAudits(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	roles := testutil.SeedRoles(t, gdb)
	target := testutil.CreateUser(t, gdb, "target", roles[model.RoleUser])
	users := infrarepo.NewUserGormRepository(gdb)
	uc := NewUserUsecase(infrarepo.NewTxManagerGorm(gdb), users)

	out, err := uc.UpdateRoles(ctx, 99, target.ID, UpdateRolesInput{Roles: []string{"user", "admin"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"USER", "ADMIN"}, out.Roles)

	got, err := uc.Get(ctx, target.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"USER", "ADMIN"}, got.Roles)

	logs, err := infrarepo.NewAuditLogGormRepository(gdb).List(ctx, repo.AuditLogFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.AuditActionUpdateUserRoles, logs[0].Action)
	assert.JSONEq(t, `{"roles":["USER"]}`, logs[0].BeforeJSON)
	assert.JSONEq(t, `{"roles":["USER","ADMIN"]}`, logs[0].AfterJSON)

	_, err = uc.UpdateRoles(ctx, 99, 9999, UpdateRolesInput{Roles: []string{"user"}})
	assert.True(t, IsKind(err, KindNotFound))
}

func TestUpdateRoles_MissingRoleRow(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	// ロール未投入
	target := testutil.CreateUser(t, gdb, "target")
	uc := NewUserUsecase(infrarepo.NewTxManagerGorm(gdb), infrarepo.NewUserGormRepository(gdb))

	_, err := uc.UpdateRoles(ctx, 1, target.ID, UpdateRolesInput{Roles: []string{"admin"}})
	ue, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "Error: Role is not found.", ue.Message)
}

func TestUserList_Paged(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	for _, n := range []string{"a1", "a2", "a3"} {
		testutil.CreateUser(t, gdb, n)
	}
	uc := NewUserUsecase(infrarepo.NewTxManagerGorm(gdb), infrarepo.NewUserGormRepository(gdb))

	page, err := uc.List(ctx, PageInput{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.True(t, page.Last)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "a3", page.Content[0].Username)
}

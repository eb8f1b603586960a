package service

import (
	"context"
	"testing"
	"time"

	"grocigo/internal/model"
	"grocigo/internal/repository"
	"grocigo/internal/testutil"
	"grocigo/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type accountsFixture struct {
	db    *gorm.DB
	auth  AuthService
	users UserService
}

func newAccountsFixture(t *testing.T) accountsFixture {
	t.Helper()
	ctx := context.Background()
	db := testutil.NewDB(t)
	require.NoError(t, repository.NewPrivilegeRepo(db).SeedDefaults(ctx))
	roleRepo := repository.NewRoleRepo(db)
	require.NoError(t, roleRepo.SeedDefaults(ctx))
	userRepo := repository.NewUserRepo(db)

	return accountsFixture{
		db:    db,
		auth:  NewAuthService(userRepo, roleRepo, jwt.NewIssuer("test-secret", time.Hour)),
		users: NewUserService(userRepo, roleRepo),
	}
}

func validAccount() CreateAccountInput {
	return CreateAccountInput{
		UserName:        "alice",
		Name:            "Alice",
		Email:           "alice@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestCreateAccount(t *testing.T) {
	f := newAccountsFixture(t)
	ctx := context.Background()

	user, err := f.auth.CreateAccount(ctx, validAccount())
	require.NoError(t, err)
	assert.Equal(t, "alice", user.ID)
	assert.Equal(t, model.RoleCustomer, user.RoleCode())
	assert.NotEqual(t, "secret1", user.Password)

	tests := map[string]struct {
		mutate  func(in *CreateAccountInput)
		wantErr error
	}{
		"taken user name": {mutate: func(in *CreateAccountInput) {}, wantErr: ErrUsernameTaken},
		"password mismatch": {
			mutate:  func(in *CreateAccountInput) { in.UserName = "bob"; in.ConfirmPassword = "other" },
			wantErr: ErrPasswordMismatch,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			in := validAccount()
			tt.mutate(&in)
			_, err := f.auth.CreateAccount(ctx, in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("missing fields", func(t *testing.T) {
		in := validAccount()
		in.UserName = "carol"
		in.Email = "not-an-email"
		_, err := f.auth.CreateAccount(ctx, in)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestLoginSessionAndLogout(t *testing.T) {
	f := newAccountsFixture(t)
	ctx := context.Background()
	_, err := f.auth.CreateAccount(ctx, validAccount())
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, LoginInput{UserName: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, LoginInput{UserName: "nobody", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, LoginInput{UserName: "alice"})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	first, err := f.auth.Login(ctx, LoginInput{UserName: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Contains(t, first.Privileges, model.PrivCartManage)
	assert.NotContains(t, first.Privileges, model.PrivStockUpdate)
	assert.Equal(t, "alice", f.auth.Session(ctx, first.Token))

	// A second login ends the first session.
	second, err := f.auth.Login(ctx, LoginInput{UserName: "alice", Password: "secret1"})
	require.NoError(t, err)
	_, err = f.auth.Authenticate(ctx, first.Token)
	assert.ErrorIs(t, err, ErrSessionRevoked)

	claims, err := f.auth.Authenticate(ctx, second.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.UserID)

	require.NoError(t, f.auth.Logout(ctx, "alice"))
	assert.Equal(t, "", f.auth.Session(ctx, second.Token))
	assert.Equal(t, "", f.auth.Session(ctx, "garbage"))
}

func TestEnsureAdminAndResetPassword(t *testing.T) {
	f := newAccountsFixture(t)
	ctx := context.Background()
	account := AdminAccount{UserName: "mak", Password: "mak123", Name: "Admin"}

	admin, created, err := f.users.EnsureAdmin(ctx, account)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "mak", admin.ID)

	_, created, err = f.users.EnsureAdmin(ctx, account)
	require.NoError(t, err)
	assert.False(t, created)

	login, err := f.auth.Login(ctx, LoginInput{UserName: "mak", Password: "mak123"})
	require.NoError(t, err)
	assert.Contains(t, login.Privileges, model.PrivStockUpdate)
	assert.Contains(t, login.Privileges, model.PrivTransactionViewAll)

	require.NoError(t, f.users.ResetPassword(ctx, "mak", "newpass"))
	_, err = f.auth.Authenticate(ctx, login.Token)
	assert.ErrorIs(t, err, ErrSessionRevoked)
	_, err = f.auth.Login(ctx, LoginInput{UserName: "mak", Password: "newpass"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.users.ResetPassword(ctx, "ghost", "whatever"), ErrUserNotFound)

	_, err = f.auth.CreateAccount(ctx, validAccount())
	require.NoError(t, err)
	customers, err := f.users.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "alice", customers[0].ID)
}

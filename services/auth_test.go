package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"Gin_postgres_redis_task_api/models"
	"Gin_postgres_redis_task_api/services"
)

func TestRegisterAssignsClientRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.auth.Register(ctx, services.RegisterInput{
		Name:     "Ann",
		Email:    " Ann@Example.com ",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotZero(t, u.ID)
	require.Equal(t, "ann@example.com", u.Email)
	require.NotEqual(t, "password123", u.Password)
	require.True(t, services.HasRole(u, models.RoleClient))
	require.False(t, services.IsAdmin(u))

	stored, err := f.repo.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, []string{models.RoleClient}, stored.RoleNames())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := services.RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "password123"}

	_, err := f.auth.Register(ctx, in)
	require.NoError(t, err)

	in.Email = "ANN@example.com"
	_, err = f.auth.Register(ctx, in)
	require.ErrorIs(t, err, services.ErrValidation)
	require.Contains(t, fieldsOf(t, err), "email")
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Register(context.Background(), services.RegisterInput{Email: "not-an-email", Password: "short"})
	require.ErrorIs(t, err, services.ErrValidation)

	fields := fieldsOf(t, err)
	require.Equal(t, []string{"The name field is required."}, fields["name"])
	require.Equal(t, []string{"The email field must be a valid email address."}, fields["email"])
	require.Equal(t, []string{"The password field must be at least 8 characters."}, fields["password"])
}

func TestLoginIssuesResolvableToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "bob@example.com", models.RoleClient)

	token, err := f.auth.Login(ctx, services.LoginInput{Email: "bob@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	caller, err := f.auth.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, u.ID, caller.ID)
	require.True(t, services.HasRole(caller, models.RoleClient))

	stored, err := f.repo.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, stored.LoginCount)
	require.NotNil(t, stored.LastLoginAt)
}

func TestLoginDoesNotRevealWhichPartFailed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "a@x.com", models.RoleClient)

	_, wrongPass := f.auth.Login(ctx, services.LoginInput{Email: "a@x.com", Password: "wrong"})
	_, noUser := f.auth.Login(ctx, services.LoginInput{Email: "nobody@x.com", Password: "wrong"})

	require.ErrorIs(t, wrongPass, services.ErrInvalidCredentials)
	require.ErrorIs(t, noUser, services.ErrInvalidCredentials)
	require.Equal(t, wrongPass.Error(), noUser.Error())
}

func TestLoginKeepsPriorTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "c@x.com", models.RoleClient)
	in := services.LoginInput{Email: "c@x.com", Password: "password123"}

	first, err := f.auth.Login(ctx, in)
	require.NoError(t, err)
	second, err := f.auth.Login(ctx, in)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = f.auth.Resolve(ctx, first)
	require.NoError(t, err)
	_, err = f.auth.Resolve(ctx, second)
	require.NoError(t, err)
}

func TestLogoutRevokesEveryToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "d@x.com", models.RoleClient)
	in := services.LoginInput{Email: "d@x.com", Password: "password123"}

	first, _ := f.auth.Login(ctx, in)
	second, _ := f.auth.Login(ctx, in)
	caller, err := f.auth.Resolve(ctx, second)
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, caller))

	_, err = f.auth.Resolve(ctx, first)
	require.ErrorIs(t, err, services.ErrUnauthenticated)
	_, err = f.auth.Resolve(ctx, second)
	require.ErrorIs(t, err, services.ErrUnauthenticated)

	// 没有 token 时再 logout 也成功
	require.NoError(t, f.auth.Logout(ctx, caller))
}

func TestResolveUnknownToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Resolve(context.Background(), "deadbeef")
	require.ErrorIs(t, err, services.ErrUnauthenticated)
}

func TestResolveTokenOfDeletedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "gone@x.com", models.RoleClient)

	token, err := f.tokens.Issue(ctx, u.ID)
	require.NoError(t, err)
	require.NoError(t, f.repo.DB.Select("Roles").Delete(u).Error)

	_, err = f.auth.Resolve(ctx, token)
	require.ErrorIs(t, err, services.ErrUnauthenticated)

	_, err = f.tokens.Lookup(ctx, token)
	require.Error(t, err)
}

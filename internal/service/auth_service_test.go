package service

import (
	"Blips/internal/api/dto"
	"Blips/internal/model"
	"Blips/internal/pkg/consts"
	"Blips/internal/pkg/security"
	"Blips/internal/pkg/supabase"
	"Blips/internal/repository/mocks"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

type memBlacklist struct {
	revoked map[string]time.Duration
}

func (b *memBlacklist) Revoke(_ context.Context, signature string, ttl time.Duration) error {
	if b.revoked == nil {
		b.revoked = map[string]time.Duration{}
	}
	b.revoked[signature] = ttl
	return nil
}

func (b *memBlacklist) IsRevoked(_ context.Context, signature string) (bool, error) {
	_, ok := b.revoked[signature]
	return ok, nil
}

func newAuthFixture(t *testing.T) (*mocks.MockUserRepo, *security.TokenManager, *memBlacklist, AuthService) {
	users := new(mocks.MockUserRepo)
	tokens := security.NewTokenManager("test-secret", time.Hour)
	blacklist := &memBlacklist{}
	return users, tokens, blacklist, NewAuthService(users, tokens, blacklist, nil, newTestStore(t))
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("email taken", func(t *testing.T) {
		users, _, _, svc := newAuthFixture(t)
		users.On("ExistsByEmailOrUsername", ctx, "ivy@example.com", "ivy").Return(true, false, nil)

		_, err := svc.Register(ctx, &dto.RegisterDTO{Username: "ivy", Email: "IVY@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, ErrEmailTaken)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("creates user", func(t *testing.T) {
		users, tokens, _, svc := newAuthFixture(t)
		users.On("ExistsByEmailOrUsername", ctx, "ivy@example.com", "ivy").Return(false, false, nil)
		var created *model.User
		users.On("Create", ctx, mock.AnythingOfType("*model.User")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*model.User)
				created.ID = primitive.NewObjectID()
			}).
			Return(nil)

		res, err := svc.Register(ctx, &dto.RegisterDTO{Username: "ivy", Email: "ivy@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.NotEqual(t, "secret1", created.Password)
		assert.NoError(t, security.CheckPasswordHash("secret1", created.Password))

		claims, err := tokens.ValidateToken(res.Token)
		require.NoError(t, err)
		assert.Equal(t, []string{consts.RoleUser}, claims.Roles)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := security.HashPassword("secret1")
	require.NoError(t, err)
	user := &model.User{ID: primitive.NewObjectID(), Username: "jack", Email: "jack@example.com", Password: hash, IsAdmin: true}

	users, tokens, _, svc := newAuthFixture(t)
	users.On("GetByLogin", ctx, "jack").Return(user, nil)
	users.On("GetByLogin", ctx, "nobody").Return(nil, mongoDB.ErrNoDocuments)

	_, err = svc.Login(ctx, &dto.LoginDTO{Username: "jack", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginDTO{Login: "nobody", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := svc.Login(ctx, &dto.LoginDTO{Login: "jack", Password: "secret1"})
	require.NoError(t, err)
	claims, err := tokens.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{consts.RoleUser, consts.RoleAdmin}, claims.Roles)
	assert.Equal(t, "jack", res.User.Username)
}

func TestLogoutRevokesSignature(t *testing.T) {
	_, tokens, blacklist, svc := newAuthFixture(t)
	token, err := tokens.GenerateToken(primitive.NewObjectID().Hex(), "kim", []string{consts.RoleUser})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token))
	sig, err := security.ExtractSignature(token)
	require.NoError(t, err)
	require.Contains(t, blacklist.revoked, sig)
	assert.Greater(t, blacklist.revoked[sig], time.Duration(0))

	assert.ErrorIs(t, svc.Logout(context.Background(), "garbage"), UnauthorizedError)
}

func TestSupabaseLoginDisabled(t *testing.T) {
	_, _, _, svc := newAuthFixture(t)
	_, err := svc.SupabaseLogin(context.Background(), &dto.SupabaseLoginDTO{AccessToken: "x"})
	assert.ErrorIs(t, err, ErrSupabaseDisabled)
}

type fakeSupabase struct {
	user *supabase.User
}

func (f *fakeSupabase) Enabled() bool { return true }

func (f *fakeSupabase) GetUser(_ context.Context, _ string) (*supabase.User, error) {
	return f.user, nil
}

func TestSupabaseLoginLinksConfirmedEmail(t *testing.T) {
	ctx := context.Background()
	at := "2024-05-01T10:00:00Z"
	users := new(mocks.MockUserRepo)
	svc := NewAuthService(users, security.NewTokenManager("test-secret", time.Hour), &memBlacklist{},
		&fakeSupabase{user: &supabase.User{ID: "sb-1", Email: "Ada@example.com", EmailConfirmedAt: &at}}, newTestStore(t))

	local := &model.User{ID: primitive.NewObjectID(), Username: "ada", Email: "ada@example.com"}
	users.On("GetBySupabaseID", ctx, "sb-1").Return(nil, mongoDB.ErrNoDocuments)
	users.On("GetByEmail", ctx, "ada@example.com").Return(local, nil)
	users.On("Update", ctx, local.ID, mock.Anything).Return(local, nil)

	res, err := svc.SupabaseLogin(ctx, &dto.SupabaseLoginDTO{AccessToken: "tok"})
	require.NoError(t, err)
	assert.Equal(t, "ada", res.User.Username)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSupabaseLoginUnconfirmedEmailDoesNotLink(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.MockUserRepo)
	svc := NewAuthService(users, security.NewTokenManager("test-secret", time.Hour), &memBlacklist{},
		&fakeSupabase{user: &supabase.User{ID: "sb-2", Email: "victim@example.com"}}, newTestStore(t))

	users.On("GetBySupabaseID", ctx, "sb-2").Return(nil, mongoDB.ErrNoDocuments)
	users.On("UsernameExists", ctx, mock.Anything).Return(false, nil)
	var created *model.User
	users.On("Create", ctx, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.User)
			created.ID = primitive.NewObjectID()
		}).
		Return(nil)

	_, err := svc.SupabaseLogin(ctx, &dto.SupabaseLoginDTO{AccessToken: "tok"})
	require.NoError(t, err)
	users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	require.NotNil(t, created)
	assert.Equal(t, "sb-2@users.supabase", created.Email)
	assert.Equal(t, "sb-2", created.SupabaseID)
}

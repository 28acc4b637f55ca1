package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/majoradvisor-backend/internal/data/repos"
	"github.com/yungbote/majoradvisor-backend/internal/data/repos/testutil"
	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/platform/ctxutil"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
)

func newAuthFixture(t *testing.T) (AuthService, repos.StudentRepo) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	studentRepo := repos.NewStudentRepo(db, log)
	return NewAuthService(db, log, repos.NewUserRepo(db, log), studentRepo, "test-secret", time.Hour), studentRepo
}

func TestCreateUserAndLogin(t *testing.T) {
	svc, studentRepo := newAuthFixture(t)
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, CreateUserInput{
		Email: " Sara@Example.com ", Password: "hunter22", FullName: "Sara", Role: "student",
	})
	require.NoError(t, err)
	assert.Equal(t, "sara@example.com", u.Email)
	assert.NotEqual(t, "hunter22", u.Password)

	st, err := studentRepo.GetByID(dbctx.Context{Ctx: ctx}, u.ID)
	require.NoError(t, err)
	require.NotNil(t, st, "student profile shares the user id")
	assert.Equal(t, "Sara", st.FullName)

	_, err = svc.CreateUser(ctx, CreateUserInput{Email: "sara@example.com", Password: "x", FullName: "Dup", Role: "admin"})
	assert.ErrorIs(t, err, ErrConflict)

	token, got, err := svc.Login(ctx, "SARA@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	p, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, types.Principal{UserID: u.ID, Name: "Sara", Email: "sara@example.com", Role: types.RoleStudent}, p)

	_, _, err = svc.Login(ctx, "sara@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, _, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, _, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserInput{Email: "a@b.c", Password: "p", FullName: "A", Role: "superuser"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.CreateUser(ctx, CreateUserInput{Email: "a@b.c", Password: "p", FullName: "A", Role: "university"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.CreateUser(ctx, CreateUserInput{Email: "a@b.c", Password: "", FullName: "A", Role: "teacher"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseTokenRejectsBadTokens(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.ParseToken("garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	raw, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ParseToken(raw)
	assert.ErrorIs(t, err, ErrUnauthorized)

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()},
	})
	raw, err = wrongKey.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.ParseToken(raw)
	assert.ErrorIs(t, err, ErrUnauthorized)

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		Role:             "root",
		RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()},
	})
	raw, err = badRole.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ParseToken(raw)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSetContextFromToken(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()
	u, err := svc.CreateUser(ctx, CreateUserInput{Email: "t@x.io", Password: "pw", FullName: "T", Role: "teacher"})
	require.NoError(t, err)
	token, _, err := svc.Login(ctx, "t@x.io", "pw")
	require.NoError(t, err)

	base := ctxutil.WithRequestData(ctx, &ctxutil.RequestData{IPAddress: "1.2.3.4"})
	authed, err := svc.SetContextFromToken(base, token)
	require.NoError(t, err)

	p, err := PrincipalFromContext(authed)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)
	assert.Equal(t, "1.2.3.4", ctxutil.GetRequestData(authed).IPAddress)
	assert.Empty(t, ctxutil.GetRequestData(base).TokenString, "original request data untouched")

	_, err = svc.SetContextFromToken(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = PrincipalFromContext(ctx)
	assert.ErrorIs(t, err, ErrUnauthorized)

	me, err := svc.GetMe(authed, p)
	require.NoError(t, err)
	assert.Equal(t, "T", me.FullName)
}

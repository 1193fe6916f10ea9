package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniilsolovey/newsroom/internal/db"
)

type mockUsers struct {
	users []db.User
}

func (m *mockUsers) CreateUser(_ context.Context, user *db.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return db.ErrUserExists
		}
	}
	user.ID = len(m.users) + 1
	m.users = append(m.users, *user)
	return nil
}

func (m *mockUsers) UserByUsername(_ context.Context, username string) (*db.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

type mockRevoker struct {
	revoked map[string]time.Duration
}

func (m *mockRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	m.revoked[tokenID] = ttl
	return nil
}

func (m *mockRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := m.revoked[tokenID]
	return ok, nil
}

func newTestService() (*Service, *mockUsers, *mockRevoker) {
	users := &mockUsers{}
	revoker := &mockRevoker{revoked: make(map[string]time.Duration)}
	return NewService(users, revoker, "test-secret", 0), users, revoker
}

func validSignUp() SignUpInput {
	return SignUpInput{
		Username:  "editor",
		Password:  "s3cret!",
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "ann@example.com",
	}
}

func TestService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		s, users, _ := newTestService()

		user, err := s.SignUp(ctx, validSignUp())
		require.NoError(t, err)

		assert.Equal(t, 1, user.ID)
		assert.NotEqual(t, "s3cret!", user.PasswordHash)
		require.Len(t, users.users, 1)

		_, err = s.SignUp(ctx, validSignUp())
		assert.ErrorIs(t, err, ErrUsernameExists)
	})

	tests := []struct {
		name   string
		modify func(in *SignUpInput)
	}{
		{"ShortUsername", func(in *SignUpInput) { in.Username = "ab" }},
		{"UsernameWithSpace", func(in *SignUpInput) { in.Username = "ann lee" }},
		{"ShortPassword", func(in *SignUpInput) { in.Password = "12345" }},
		{"BadEmail", func(in *SignUpInput) { in.Email = "ann@" }},
		{"LongName", func(in *SignUpInput) { in.FirstName = strings.Repeat("a", 51) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, users, _ := newTestService()
			in := validSignUp()
			tt.modify(&in)

			_, err := s.SignUp(ctx, in)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, users.users)
		})
	}
}

func TestService_LoginAuthenticateLogout(t *testing.T) {
	ctx := context.Background()
	s, _, revoker := newTestService()

	_, err := s.SignUp(ctx, validSignUp())
	require.NoError(t, err)

	_, err = s.Login(ctx, "editor", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(ctx, "nobody", "s3cret!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, err := s.Login(ctx, "editor", "s3cret!")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), token.ExpiresAt, time.Minute)

	claims, err := s.Authenticate(ctx, token.Value)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.UserID)
	assert.NotEmpty(t, claims.TokenID)

	require.NoError(t, s.Logout(ctx, *claims))
	assert.Contains(t, revoker.revoked, claims.TokenID)
	assert.Greater(t, revoker.revoked[claims.TokenID], 23*time.Hour)

	_, err = s.Authenticate(ctx, token.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_AuthenticateRejects(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService()

	sign := func(method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
		v, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return v
	}

	valid := jwt.RegisteredClaims{
		ID:        "id",
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	badSubject := valid
	badSubject.Subject = "editor"

	tests := []struct {
		name  string
		token string
	}{
		{"Garbage", "not-a-token"},
		{"WrongSecret", sign(jwt.SigningMethodHS256, []byte("other"), valid)},
		{"WrongMethod", sign(jwt.SigningMethodHS512, []byte("test-secret"), valid)},
		{"Expired", sign(jwt.SigningMethodHS256, []byte("test-secret"), expired)},
		{"BadSubject", sign(jwt.SigningMethodHS256, []byte("test-secret"), badSubject)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Authenticate(ctx, tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	claims, err := s.Authenticate(ctx, sign(jwt.SigningMethodHS256, []byte("test-secret"), valid))
	require.NoError(t, err)
	assert.Equal(t, 1, claims.UserID)
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/daniilsolovey/newsroom/internal/db"
)

const (
	DefaultTokenTTL = 24 * time.Hour
	maxNameLength   = 50
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[\p{L}0-9_]{3,20}$`)
	passwordRegex = regexp.MustCompile(`^.{6,32}$`)
)

// Users is the account store.
type Users interface {
	CreateUser(ctx context.Context, user *db.User) error
	UserByUsername(ctx context.Context, username string) (*db.User, error)
}

// Revoker keeps ids of tokens that were logged out before they expired.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type SignUpInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
}

func (in *SignUpInput) validate() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if !usernameRegex.MatchString(in.Username) {
		return fmt.Errorf("%w: username must be 3-20 letters, numbers or underscores", ErrInvalidInput)
	}
	if !passwordRegex.MatchString(in.Password) {
		return fmt.Errorf("%w: password must be 6-32 characters", ErrInvalidInput)
	}
	if !emailRegex.MatchString(in.Email) || len(in.Email) > 254 {
		return fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if utf8.RuneCountInString(in.FirstName) > maxNameLength || utf8.RuneCountInString(in.LastName) > maxNameLength {
		return fmt.Errorf("%w: names must be at most %d characters", ErrInvalidInput, maxNameLength)
	}

	return nil
}

// Token is a signed access token.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Claims identify the user behind a valid token.
type Claims struct {
	UserID    int
	TokenID   string
	ExpiresAt time.Time
}

type Service struct {
	users   Users
	revoker Revoker
	secret  []byte
	ttl     time.Duration
}

// NewService creates the account service. A zero ttl means DefaultTokenTTL.
func NewService(users Users, revoker Revoker, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &Service{
		users:   users,
		revoker: revoker,
		secret:  []byte(secret),
		ttl:     ttl,
	}
}

// SignUp registers a new user with a bcrypt password hash.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*db.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &db.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		CreatedAt:    time.Now(),
	}

	err = s.users.CreateUser(ctx, user)
	if errors.Is(err, db.ErrUserExists) {
		return nil, ErrUsernameExists
	} else if err != nil {
		return nil, fmt.Errorf("db create user: %w", err)
	}

	return user, nil
}

// Login checks credentials and issues a token.
func (s *Service) Login(ctx context.Context, username, password string) (*Token, error) {
	user, err := s.users.UserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("db get user: %w", err)
	} else if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user.ID)
}

func (s *Service) issue(userID int) (*Token, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	value, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Token{Value: value, ExpiresAt: expiresAt}, nil
}

// Authenticate validates a token and checks it was not logged out.
func (s *Service) Authenticate(ctx context.Context, value string) (*Claims, error) {
	var rc jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(value, &rc, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || rc.ExpiresAt == nil || rc.ID == "" {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.Atoi(rc.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, rc.ID)
		if err != nil {
			return nil, fmt.Errorf("check token: %w", err)
		} else if revoked {
			return nil, ErrInvalidToken
		}
	}

	return &Claims{UserID: userID, TokenID: rc.ID, ExpiresAt: rc.ExpiresAt.Time}, nil
}

// Logout revokes the token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, c Claims) error {
	if s.revoker == nil {
		return nil
	}

	return s.revoker.Revoke(ctx, c.TokenID, time.Until(c.ExpiresAt))
}

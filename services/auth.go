package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/Kenyi45/seventec-reto/dto"
	"github.com/Kenyi45/seventec-reto/internal/apperr"
	"github.com/Kenyi45/seventec-reto/internal/repository"
	"github.com/Kenyi45/seventec-reto/model"
)

// Claims is the verified identity extracted from a bearer token.
type Claims struct {
	UserID bson.ObjectID
	Email  string
	Role   model.Role
}

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users    repository.UserStore
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthService(users repository.UserStore, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a user with a bcrypt-hashed password and returns a
// fresh token plus the stored record (the hash never serializes).
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (string, *model.User, error) {
	name := strings.TrimSpace(req.Name)
	if utf8.RuneCountInString(name) < 2 {
		return "", nil, apperr.Validation("name must be at least 2 characters")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return "", nil, apperr.Validation("invalid email address")
	}
	if len(req.Password) < 8 {
		return "", nil, apperr.Validation("password must be at least 8 characters")
	}
	if !req.Role.Valid() {
		return "", nil, apperr.Validation("role must be organizer or participant")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	now := s.now()
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         req.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", nil, apperr.Conflict("email already registered")
		}
		return "", nil, err
	}

	token, err := s.issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login answers every mismatch with the same error so callers cannot
// probe which emails exist.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (string, *model.User, error) {
	user, err := s.users.ByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, apperr.Unauthorized("invalid credentials")
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, apperr.Unauthorized("invalid credentials")
	}

	token, err := s.issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// VerifyToken parses and validates a bearer token. HS256 only.
func (s *AuthService) VerifyToken(tokenStr string) (Claims, error) {
	var tc tokenClaims
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&tc,
		func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return Claims{}, apperr.Unauthorized("invalid or expired token")
	}

	uid, err := bson.ObjectIDFromHex(tc.Subject)
	if err != nil {
		return Claims{}, apperr.Unauthorized("invalid token subject")
	}
	role := model.Role(tc.Role)
	if !role.Valid() {
		return Claims{}, apperr.Unauthorized("invalid token role")
	}
	return Claims{UserID: uid, Email: tc.Email, Role: role}, nil
}

// Refresh issues a new token for a still-existing account.
func (s *AuthService) Refresh(ctx context.Context, actor Claims) (string, error) {
	user, err := s.users.ByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperr.Unauthorized("account no longer exists")
		}
		return "", err
	}
	return s.issue(user)
}

func (s *AuthService) Me(ctx context.Context, userID bson.ObjectID) (*model.User, error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID bson.ObjectID, req dto.UpdateProfileRequest) (*model.User, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if utf8.RuneCountInString(trimmed) < 2 {
			return nil, apperr.Validation("name must be at least 2 characters")
		}
		req.Name = &trimmed
	}
	if req.Bio != nil && utf8.RuneCountInString(*req.Bio) > 500 {
		return nil, apperr.Validation("bio must be at most 500 characters")
	}

	user, err := s.users.Update(ctx, userID, repository.UserPatch{
		Name:            req.Name,
		Bio:             req.Bio,
		Phone:           req.Phone,
		Department:      req.Department,
		ProfileImageURL: req.ProfileImageURL,
		FCMToken:        req.FCMToken,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(u *model.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Email: u.Email,
		Role:  string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

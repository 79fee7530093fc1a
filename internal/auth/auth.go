package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mehedi/streambox/internal/models"
	"github.com/mehedi/streambox/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid admin credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type Claims struct {
	AdminID string `json:"admin_id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// Auth verifies admin credentials and issues session tokens.
type Auth struct {
	admins    *repository.AdminRepository
	secret    []byte
	expiresIn time.Duration
}

func New(admins *repository.AdminRepository, secret string) *Auth {
	return &Auth{
		admins:    admins,
		secret:    []byte(secret),
		expiresIn: 24 * time.Hour,
	}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login checks the credentials against the admins table and returns a signed
// session token. Every failure collapses to ErrInvalidCredentials so the
// response never reveals which part was wrong.
func (a *Auth) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := a.admins.GetByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return a.generateToken(admin)
}

func (a *Auth) generateToken(admin *models.Admin) (string, error) {
	claims := Claims{
		AdminID: admin.ID,
		Email:   admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

func (a *Auth) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

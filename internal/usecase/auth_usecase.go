package usecase

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type LoginInput struct {
	Usuario string
	Senha   string
}

type LoginOutput struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Login de operador único: credencial vem do ambiente (usuário + hash
// bcrypt), o token é HS256.
type AuthUsecase struct {
	operatorUser string
	passwordHash string
	secret       []byte
	accessTTL    time.Duration
	clock        Clock
}

// DI
func NewAuthUsecase(operatorUser, passwordHash, secret string, accessTTL time.Duration, clock Clock) *AuthUsecase {
	return &AuthUsecase{
		operatorUser: operatorUser,
		passwordHash: passwordHash,
		secret:       []byte(secret),
		accessTTL:    accessTTL,
		clock:        clock,
	}
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	if in.Usuario == "" || in.Senha == "" {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "usuario and senha required")
	}

	if in.Usuario != u.operatorUser {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(in.Senha)); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	now := u.clock.Now()
	expiresAt := now.Add(u.accessTTL)

	claims := jwt.MapClaims{
		"sub": in.Usuario,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(u.secret)
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "token error")
	}

	return LoginOutput{
		AccessToken: signed,
		ExpiresIn:   int64(u.accessTTL.Seconds()),
	}, nil
}

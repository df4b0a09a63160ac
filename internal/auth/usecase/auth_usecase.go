package usecase

import (
	"errors"
	"time"

	authdto "workmind-backend/internal/auth/dto"
	"workmind-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthUsecase authenticates the single operator of this instance. There is
// no user table: the operator's bcrypt password hash lives in config and a
// successful login yields a short-lived access token.
type AuthUsecase interface {
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	ValidateToken(tokenString string) (string, error)
}

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	config *config.Config
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(cfg *config.Config) AuthUsecase {
	return &authUsecase{config: cfg}
}

func (u *authUsecase) Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	if u.config.OperatorPasswordHash == "" {
		return nil, errors.New("operator password is not configured")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.config.OperatorPasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid password")
	}

	accessToken, err := u.generateAccessToken()
	if err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(u.config.JWTAccessExpiry.Seconds()),
	}, nil
}

func (u *authUsecase) generateAccessToken() (string, error) {
	claims := jwt.MapClaims{
		"sub": "operator",
		"exp": time.Now().Add(u.config.JWTAccessExpiry).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(u.config.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}

	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", errors.New("invalid token claims")
	}

	return subject, nil
}

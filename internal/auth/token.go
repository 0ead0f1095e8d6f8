package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoockh/devconnect/internal/utils"
)

// Identity is the verified caller of a request. It is passed explicitly into
// every service operation that needs an owner.
type Identity struct {
	UserID primitive.ObjectID
}

type userClaim struct {
	ID string `json:"id"`
}

type Claims struct {
	User userClaim `json:"user"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret   []byte
	lifespan time.Duration
	issuer   string
	now      func() time.Time
}

func NewTokenService(secret string, lifespan time.Duration, issuer string) *TokenService {
	return &TokenService{
		secret:   []byte(secret),
		lifespan: lifespan,
		issuer:   issuer,
		now:      time.Now,
	}
}

func (s *TokenService) Issue(userID primitive.ObjectID) (string, error) {
	now := s.now()
	id := userID.Hex()
	claims := Claims{
		User: userClaim{ID: id},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifespan)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("cannot sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and extracts the embedded user id.
// Every failure is reported as CodeUnauthorized.
func (s *TokenService) Verify(raw string) (Identity, error) {
	const op = "TokenService.Verify"

	if raw == "" {
		return Identity{}, utils.E(utils.CodeUnauthorized, op, "no token, authorization denied", nil)
	}

	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || tok == nil || !tok.Valid {
		if err == nil {
			err = errors.New("token not valid")
		}
		return Identity{}, utils.E(utils.CodeUnauthorized, op, "token is not valid", err)
	}

	sub := claims.Subject
	if sub == "" {
		sub = claims.User.ID
	}
	id, err := primitive.ObjectIDFromHex(sub)
	if err != nil {
		return Identity{}, utils.E(utils.CodeUnauthorized, op, "token is not valid", err)
	}
	return Identity{UserID: id}, nil
}

package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/nerdberries/market/internal/utils/collectionutils"
)

type User struct {
	ID                int64   `json:"-"`
	Email             string  `json:"email"`
	Token             string  `json:"token,omitempty"`
	Username          string  `json:"username"`
	Bio               *string `json:"bio"`
	Image             *string `json:"image"`
	Password          []byte  `json:"-"`
	PlaintextPassword string  `json:"-"`
}

type UserClaim struct {
	Username string `json:"username"`
	Email    string `json:"email"`

	jwt.RegisteredClaims
}

type Auth struct {
	jwtSecret          []byte
	authenticatedUsers *collectionutils.SafeMap[string, *User]
}

func New(jwtSecret string) *Auth {
	return &Auth{
		jwtSecret:          []byte(jwtSecret),
		authenticatedUsers: collectionutils.NewSafeMap[string, *User](),
	}
}

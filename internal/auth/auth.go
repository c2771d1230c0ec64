package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mdobak/go-xerrors"
	"github.com/nerdberries/market/internal/web"
	"golang.org/x/crypto/bcrypt"
)

const (
	UserCtxKey = web.ContextKey("user_data")

	// TokenCookieName carries the token for browser flows, the
	// Authorization header takes precedence when both are present.
	TokenCookieName = "token"
)

var NotAuthenticatedUser = xerrors.Message("Not authenticated user")

func (user *User) SetPassword(plainTextPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), 12)
	if err != nil {
		return xerrors.New(err)
	}

	user.Password = hashedPassword
	return nil
}

func (user *User) IsPasswordMatch(plainTextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(user.Password, []byte(plainTextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, xerrors.New(err)
	}

	return true, nil
}

func (auth *Auth) GenerateToken(user *User, duration time.Duration) (string, error) {
	expireAt := time.Now().Add(duration)
	claim := UserClaim{
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expireAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claim)
	signedString, err := token.SignedString(auth.jwtSecret)
	if err != nil {
		return "", xerrors.New(err)
	}

	return signedString, nil
}

func (auth *Auth) Authenticate(tokenString string) (*UserClaim, error) {
	parsedToken, err := jwt.ParseWithClaims(tokenString, &UserClaim{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, xerrors.New("unexpected signing method")
		}
		return auth.jwtSecret, nil
	})

	if err != nil {
		return nil, xerrors.New(err)
	}

	if !parsedToken.Valid {
		return nil, xerrors.New("invalid token")
	}

	claim, ok := parsedToken.Claims.(*UserClaim)
	if !ok {
		return nil, xerrors.New("could not parse claims")
	}

	return claim, nil
}

func (auth *Auth) GetAuthenticatedUser(r *http.Request) (*User, error) {
	user, ok := web.GetValueFromContext[*User](r, UserCtxKey)
	if !ok {
		return nil, NotAuthenticatedUser
	}

	return user, nil
}

func (auth *Auth) SetAuthenticatedUser(r *http.Request, user *User) *http.Request {
	return web.AddValueToContext(r, UserCtxKey, user)
}

// CacheAuthenticatedUser keeps the user record around so requests arriving
// with a valid token can skip the database lookup.
func (auth *Auth) CacheAuthenticatedUser(user *User) {
	auth.authenticatedUsers.Store(user.Username, user)
}

func (auth *Auth) GetCachedUser(username string) (*User, bool) {
	return auth.authenticatedUsers.Get(username)
}

func (auth *Auth) EvictCachedUser(username string) {
	auth.authenticatedUsers.Delete(username)
}

func (auth *Auth) IsUserAuthenticated(r *http.Request) bool {
	_, err := auth.GetAuthenticatedUser(r)
	return err == nil
}

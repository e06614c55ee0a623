package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/bookclub-server/config"
	"github.com/vnkhanh/bookclub-server/models"
	"github.com/vnkhanh/bookclub-server/utils"
)

const (
	CtxUser   = "user"      // *models.User of the authenticated actor
	CtxClaims = "jwtClaims" // *utils.JWTClaims when the request used a bearer token
)

// TokenDenylist records revoked bearer tokens by jti.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Denylist is consulted for every bearer token. Nil disables revocation.
var Denylist TokenDenylist

var errNoCredentials = errors.New("Authentication required")

// AuthRequired resolves the actor from a Bearer token or the session cookie and aborts with
// 401 if neither yields a valid user.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authenticate(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
			return
		}
		c.Set(CtxUser, user)
		c.Next()
	}
}

// OptionalAuth sets the actor when credentials are valid and carries on anonymously otherwise.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := authenticate(c); err == nil {
			c.Set(CtxUser, user)
		}
		c.Next()
	}
}

// CurrentUser returns the actor set by AuthRequired/OptionalAuth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// RevokeCurrentToken adds the request's bearer token to the denylist until it expires.
func RevokeCurrentToken(c *gin.Context) error {
	v, ok := c.Get(CtxClaims)
	if !ok || Denylist == nil {
		return nil
	}
	claims := v.(*utils.JWTClaims)
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return Denylist.Revoke(c.Request.Context(), claims.ID, ttl)
}

func authenticate(c *gin.Context) (*models.User, error) {
	uid, err := bearerUserID(c)
	if errors.Is(err, errNoCredentials) {
		uid, err = sessionUserID(c)
	}
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := config.DB.WithContext(c.Request.Context()).First(&user, uid).Error; err != nil {
		return nil, errors.New("User not found")
	}
	return &user, nil
}

func bearerUserID(c *gin.Context) (uint, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return 0, errNoCredentials
	}
	if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return 0, errors.New("Invalid Authorization header")
	}
	rawToken := strings.TrimSpace(authHeader[7:])

	claims, err := utils.VerifyToken(rawToken)
	if err != nil {
		return 0, errors.New("Invalid token")
	}

	if Denylist != nil && claims.ID != "" {
		revoked, err := Denylist.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			return 0, errors.New("Cannot verify token")
		}
		if revoked {
			return 0, errors.New("Token has been revoked")
		}
	}

	uid, err := claims.UID()
	if err != nil {
		return 0, errors.New("Invalid subject")
	}
	c.Set(CtxClaims, claims)
	return uid, nil
}

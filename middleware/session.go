package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/bookclub-server/utils"
)

const (
	SessionName    = "bookclub_session"
	sessionUserKey = "user_id"
)

// SetUpSessions installs the signed cookie store used by browser logins.
func SetUpSessions(r *gin.Engine, secret string, secure bool) {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(utils.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(SessionName, store))
}

// StartSession records userID in the session cookie. It is a no-op when sessions are not installed.
func StartSession(c *gin.Context, userID uint) error {
	if !hasSessions(c) {
		return nil
	}
	session := sessions.Default(c)
	session.Set(sessionUserKey, userID)
	return session.Save()
}

// EndSession clears the session cookie.
func EndSession(c *gin.Context) error {
	if !hasSessions(c) {
		return nil
	}
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}

func sessionUserID(c *gin.Context) (uint, error) {
	if !hasSessions(c) {
		return 0, errNoCredentials
	}
	uid, ok := sessions.Default(c).Get(sessionUserKey).(uint)
	if !ok || uid == 0 {
		return 0, errNoCredentials
	}
	return uid, nil
}

func hasSessions(c *gin.Context) bool {
	_, ok := c.Get(sessions.DefaultKey)
	return ok
}

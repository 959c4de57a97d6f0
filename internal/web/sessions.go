package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
)

const (
	sessionCookie = "voxnote_session"
	sessionKey    = "session_id"
)

// SessionStore keeps each browser session's credential in memory. Nothing is
// written to disk or to the process environment. A session expires once it
// has been idle for the store's TTL; every read or write renews it.
type SessionStore struct {
	cache *ttlcache.Cache[string, string]
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionStore{
		cache: ttlcache.New(ttlcache.WithTTL[string, string](ttl)),
	}
}

func (s *SessionStore) Credential(id string) string {
	s.cache.DeleteExpired()
	item := s.cache.Get(id)
	if item == nil {
		return ""
	}
	return item.Value()
}

func (s *SessionStore) SetCredential(id, credential string) {
	s.cache.DeleteExpired()
	s.cache.Set(id, credential, ttlcache.DefaultTTL)
}

// Len reports the sessions that have not expired yet.
func (s *SessionStore) Len() int {
	s.cache.DeleteExpired()
	return s.cache.Len()
}

// sessionID ensures the browser carries a session cookie.
func sessionID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteStrictMode)
			c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
		}
		c.Set(sessionKey, id)
		c.Next()
	}
}

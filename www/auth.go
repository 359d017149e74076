package www

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"net/http"

	"servicetrack/tracking"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"
)

const sessionName = "servicetrack_session"

type sessionStore struct {
	store *sessions.CookieStore
}

func newSessionStore(secret string) *sessionStore {
	var key []byte
	if secret != "" {
		key, _ = base64.StdEncoding.DecodeString(secret)
	}
	if len(key) < 32 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			// A predictable key would let anyone forge admin sessions.
			log.Fatalf("generate session key: %v", err)
		}
	}
	cs := sessions.NewCookieStore(key)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60, // 7 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &sessionStore{store: cs}
}

func (s *sessionStore) get(r *http.Request) *sessions.Session {
	sess, _ := s.store.Get(r, sessionName)
	return sess
}

func (s *sessionStore) getUser(r *http.Request) (name, role string, ok bool) {
	sess := s.get(r)
	n, nOK := sess.Values["name"].(string)
	ro, rOK := sess.Values["role"].(string)
	if !nOK || !rOK {
		return "", "", false
	}
	return n, ro, true
}

func (s *sessionStore) setUser(w http.ResponseWriter, r *http.Request, name, role string) {
	sess := s.get(r)
	sess.Values["name"] = name
	sess.Values["role"] = role
	sess.Save(r, w)
}

func (s *sessionStore) clear(w http.ResponseWriter, r *http.Request) {
	sess := s.get(r)
	delete(sess.Values, "name")
	delete(sess.Values, "role")
	sess.Options.MaxAge = -1
	sess.Save(r, w)
}

// adminMiddleware restricts a route to logged-in admins.
func (h *Handlers) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, role, ok := h.sessions.getUser(r)
		if !ok {
			writeFailure(w, http.StatusUnauthorized, "", "Access Denied")
			return
		}
		if role != tracking.RoleAdmin {
			writeFailure(w, http.StatusForbidden, "", "Access Denied. Admins only.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ashureev/salestwin/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	userID    string
	sessionID string
	store     *session.Store
}

func serve(t *testing.T, reg *session.Registry, req *http.Request) (*httptest.ResponseRecorder, captured) {
	t.Helper()
	var got captured
	h := Middleware(reg, true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = captured{
			userID:    UserIDFromContext(r.Context()),
			sessionID: SessionIDFromContext(r.Context()),
			store:     StoreFromContext(r.Context()),
		}
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, got
}

func TestMiddleware_IssuesCookieAndStore(t *testing.T) {
	reg := session.NewRegistry()

	rec, got := serve(t, reg, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	require.True(t, isValidAnonID(got.userID))
	assert.Equal(t, DefaultSessionIDValue, got.sessionID)
	require.NotNil(t, got.store)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AnonCookieName, cookies[0].Name)
	assert.Equal(t, got.userID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.False(t, cookies[0].Secure, "dev mode")

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.AddCookie(cookies[0])
	_, again := serve(t, reg, req)
	assert.Equal(t, got.userID, again.userID)
	assert.Same(t, got.store, again.store)
}

func TestMiddleware_TabsAreIsolated(t *testing.T) {
	reg := session.NewRegistry()
	cookie := &http.Cookie{Name: AnonCookieName, Value: "anon_0123456789abcdef0123456789abcdef"}

	reqA := httptest.NewRequest(http.MethodGet, "/", nil)
	reqA.AddCookie(cookie)
	reqA.Header.Set(SessionHeaderName, "tab-a")
	_, a := serve(t, reg, reqA)

	reqB := httptest.NewRequest(http.MethodGet, "/?session_id=tab-b", nil)
	reqB.AddCookie(cookie)
	_, b := serve(t, reg, reqB)

	assert.Equal(t, "tab-a", a.sessionID)
	assert.Equal(t, "tab-b", b.sessionID)
	assert.NotSame(t, a.store, b.store)
	assert.Equal(t, "tab-a", a.store.ID())
}

func TestMiddleware_RejectsForgedIDs(t *testing.T) {
	reg := session.NewRegistry()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AnonCookieName, Value: "admin"})
	req.Header.Set(SessionHeaderName, "../../etc/passwd")

	_, got := serve(t, reg, req)
	assert.NotEqual(t, "admin", got.userID)
	assert.Equal(t, DefaultSessionIDValue, got.sessionID)
}

func TestFromContext_Defaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, UserIDFromContext(req.Context()))
	assert.Equal(t, DefaultSessionIDValue, SessionIDFromContext(req.Context()))
	assert.Nil(t, StoreFromContext(req.Context()))
}

func TestIPFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	assert.Equal(t, "10.0.0.7", IPFromRequest(req))
	req.RemoteAddr = "garbage"
	assert.Equal(t, "garbage", IPFromRequest(req))
}

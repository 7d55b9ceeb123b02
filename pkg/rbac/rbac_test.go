package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/backoffice/pkg/auth"
	"github.com/shashiranjanraj/backoffice/pkg/metrics"
)

var protected = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("protected content"))
})

func request(path string, id *auth.Identity) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if id != nil {
		req = req.WithContext(auth.WithIdentity(req.Context(), *id))
	}
	return req
}

var (
	admin    = &auth.Identity{UserID: 1, Username: "root", Role: auth.RoleAdmin}
	customer = &auth.Identity{UserID: 2, Username: "alice", Role: auth.RoleCustomer}
	other    = &auth.Identity{UserID: 3, Username: "mallory", Role: auth.RoleOther}
)

func TestAuthenticated(t *testing.T) {
	h := Authenticated("/login/")(protected)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, request("/customers/4/?status=Pending", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login/?next=%2Fcustomers%2F4%2F%3Fstatus%3DPending", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, request("/", other))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuest(t *testing.T) {
	h := Guest("/")(protected)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, request("/login/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, id := range []*auth.Identity{admin, customer, other} {
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, request("/login/", id))
		assert.Equal(t, http.StatusFound, rec.Code, id.Username)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	}
}

func TestHasRoleSoftDenial(t *testing.T) {
	h := HasRole(nil, auth.RoleAdmin)(protected)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, request("/products/", admin))
	assert.Equal(t, "protected content", rec.Body.String())

	for _, id := range []*auth.Identity{customer, other, nil} {
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, request("/products/", id))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, DeniedMessage, rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "protected content")
	}
}

func TestHasRoleCountsDenials(t *testing.T) {
	before := testutil.ToFloat64(metrics.AccessDenied.WithLabelValues("customer"))
	HasRole(nil, auth.RoleAdmin)(protected).ServeHTTP(httptest.NewRecorder(), request("/products/", customer))
	after := testutil.ToFloat64(metrics.AccessDenied.WithLabelValues("customer"))
	assert.Equal(t, before+1, after)
}

func TestAdminOnly(t *testing.T) {
	deny := func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("denied page")) }
	h := AdminOnly("/user/", deny)(protected)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, request("/", admin))
	assert.Equal(t, "protected content", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, request("/", customer))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/user/", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, request("/", other))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "denied page", rec.Body.String())
}

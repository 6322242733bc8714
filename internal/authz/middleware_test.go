package authz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workdeck/workdeck/internal/shared"
)

type stubResolver struct {
	identities map[string]Identity
}

func (r stubResolver) ResolveIdentity(_ context.Context, userID string) (Identity, error) {
	identity, ok := r.identities[userID]
	if !ok {
		return Identity{}, ErrUnauthorized
	}
	return identity, nil
}

func newTestMiddleware(t *testing.T, identities map[string]Identity, source SubscriptionSource) Middleware {
	t.Helper()
	return Middleware{
		Identities: stubResolver{identities: identities},
		Scope:      ScopeResolver{},
		Gate:       Gate{Source: source},
	}
}

func requestWithUser(t *testing.T, userID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sm := shared.NewSessionManager(nil, "workdeck_session", "secret", time.Hour, false)
	sess, err := sm.Load(req.Context(), req)
	require.NoError(t, err)
	if userID != "" {
		sess.SetUser(userID)
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireIdentityRejectsAnonymous(t *testing.T) {
	mw := newTestMiddleware(t, nil, staticSource{})

	rr := httptest.NewRecorder()
	mw.RequireIdentity(okHandler()).ServeHTTP(rr, requestWithUser(t, ""))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireIdentityRejectsUnknownUser(t *testing.T) {
	mw := newTestMiddleware(t, map[string]Identity{}, staticSource{})

	rr := httptest.NewRecorder()
	mw.RequireIdentity(okHandler()).ServeHTTP(rr, requestWithUser(t, "ghost"))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequirePermission(t *testing.T) {
	identities := map[string]Identity{
		"emp":  {UserID: "emp", Role: RoleEmployee, OrganizationID: strptr("org-1")},
		"root": {UserID: "root", Role: RoleSuperAdmin, IsSuperAdmin: true},
		"bad":  {UserID: "bad", Role: Role("INTERN")},
	}
	mw := newTestMiddleware(t, identities, staticSource{})

	cases := []struct {
		user string
		perm Permission
		code int
	}{
		{"emp", PermTasksView, http.StatusOK},
		{"emp", PermOrgEdit, http.StatusForbidden},
		{"root", PermOrgEdit, http.StatusOK},
		{"bad", PermTasksView, http.StatusForbidden},
	}
	for _, tc := range cases {
		handler := mw.RequireIdentity(mw.Require(tc.perm)(okHandler()))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, requestWithUser(t, tc.user))
		assert.Equal(t, tc.code, rr.Code, "user %s permission %s", tc.user, tc.perm)
	}
}

type recordingDenials struct {
	reasons []string
}

func (r *recordingDenials) RecordDenial(reason string) {
	r.reasons = append(r.reasons, reason)
}

func TestRejectRecordsDenialReason(t *testing.T) {
	identities := map[string]Identity{
		"emp": {UserID: "emp", Role: RoleEmployee, OrganizationID: strptr("org-1")},
		"bad": {UserID: "bad", Role: Role("INTERN")},
	}
	recorder := &recordingDenials{}
	mw := newTestMiddleware(t, identities, staticSource{})
	mw.Denials = recorder

	rr := httptest.NewRecorder()
	mw.RequireIdentity(okHandler()).ServeHTTP(rr, requestWithUser(t, ""))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	mw.RequireIdentity(mw.Require(PermTasksView)(okHandler())).ServeHTTP(rr, requestWithUser(t, "bad"))
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = httptest.NewRecorder()
	mw.RequireIdentity(mw.Require(PermOrgEdit)(okHandler())).ServeHTTP(rr, requestWithUser(t, "emp"))
	require.Equal(t, http.StatusForbidden, rr.Code)

	assert.Equal(t, []string{"unauthenticated", "invalid_role", "forbidden"}, recorder.reasons)
}

func TestRequireOrgAdmin(t *testing.T) {
	identities := map[string]Identity{
		"admin":   {UserID: "admin", Role: RoleOrgAdmin, OrganizationID: strptr("org-1")},
		"manager": {UserID: "manager", Role: RoleManager, OrganizationID: strptr("org-1")},
		"root":    {UserID: "root", Role: RoleSuperAdmin, IsSuperAdmin: true},
	}
	mw := newTestMiddleware(t, identities, staticSource{})
	handler := mw.RequireIdentity(mw.RequireOrgAdmin(okHandler()))

	for user, code := range map[string]int{
		"admin":   http.StatusOK,
		"manager": http.StatusForbidden,
		"root":    http.StatusOK,
	} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, requestWithUser(t, user))
		assert.Equal(t, code, rr.Code, "user %s", user)
	}
}

func TestRequireOrgRejectsUnaffiliated(t *testing.T) {
	identities := map[string]Identity{
		"emp":    {UserID: "emp", Role: RoleEmployee, OrganizationID: strptr("org-1")},
		"orphan": {UserID: "orphan", Role: RoleClient},
	}
	mw := newTestMiddleware(t, identities, staticSource{})

	var captured *string
	handler := mw.RequireIdentity(mw.RequireOrg(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope, _ := OrgFromContext(r.Context())
		captured = scope.OrganizationID
		w.WriteHeader(http.StatusOK)
	})))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestWithUser(t, "emp"))
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "org-1", *captured)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, requestWithUser(t, "orphan"))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestRequireTargetScopesRouteParam(t *testing.T) {
	identities := map[string]Identity{
		"emp":  {UserID: "emp", Role: RoleEmployee, OrganizationID: strptr("org-1")},
		"root": {UserID: "root", Role: RoleSuperAdmin, IsSuperAdmin: true},
	}
	mw := newTestMiddleware(t, identities, staticSource{})

	router := chi.NewRouter()
	router.With(mw.RequireIdentity, mw.RequireTarget("orgID")).Get("/orgs/{orgID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	serve := func(user, path string) int {
		req := requestWithUser(t, user)
		req.URL.Path = path
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, serve("emp", "/orgs/org-1"))
	assert.Equal(t, http.StatusForbidden, serve("emp", "/orgs/org-2"))
	assert.Equal(t, http.StatusOK, serve("root", "/orgs/org-2"))
}

func TestWithEntitlementReportsWithoutRejecting(t *testing.T) {
	identities := map[string]Identity{
		"emp": {UserID: "emp", Role: RoleEmployee, OrganizationID: strptr("org-1")},
	}
	mw := newTestMiddleware(t, identities, staticSource{status: AccessExpired, found: true})

	var captured Entitlement
	handler := mw.RequireIdentity(mw.WithOrgScope(mw.WithEntitlement(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = EntitlementFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestWithUser(t, "emp"))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, captured.OK)
	assert.Equal(t, AccessExpired, captured.Status)
}

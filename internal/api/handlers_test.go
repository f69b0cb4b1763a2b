package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"punchease/internal/auth"
	"punchease/internal/config"
	"punchease/internal/model"
	"punchease/internal/storage"
	"punchease/internal/tenant"
)

type fakeCredentials struct {
	byUsername map[string]*model.TenantCredential
	fail       error
	calls      int
}

func (f *fakeCredentials) TenantCredentialByUsername(username string) (*model.TenantCredential, error) {
	f.calls++
	if f.fail != nil {
		return nil, f.fail
	}
	cred, ok := f.byUsername[username]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cred, nil
}

type fakeCompanies struct {
	bySlug map[string]*model.Company
}

func (f *fakeCompanies) CompanyBySlug(slug string) (*model.Company, error) {
	c, ok := f.bySlug[slug]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return c, nil
}

func newCredential(t *testing.T, username, password string, companyID uuid.UUID) *model.TenantCredential {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.TenantCredential{
		SettingsID:   uuid.New(),
		CompanyID:    companyID,
		Username:     username,
		PasswordHash: string(hash),
	}
}

func newTestAPI(creds *fakeCredentials, companies *fakeCompanies) *API {
	return &API{
		Credentials: creds,
		Resolver:    tenant.NewResolver(companies),
		Cfg:         &config.Config{},
		Routers:     chi.NewRouter(),
	}
}

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	return rec
}

func TestVerifyPreflight(t *testing.T) {
	a := newTestAPI(&fakeCredentials{}, &fakeCompanies{})
	router := a.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/functions/verify-tenant-password", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Empty(t, rec.Body.String())
}

func TestVerifyMissingFields(t *testing.T) {
	creds := &fakeCredentials{}
	a := newTestAPI(creds, &fakeCompanies{})
	router := a.Router()

	for _, body := range []string{
		`{"username":"","password":"x"}`,
		`{"username":"portal","password":""}`,
		`{}`,
		`not json`,
	} {
		rec := postJSON(router, "/functions/verify-tenant-password", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
		require.JSONEq(t, `{"error":"Username and password are required"}`, rec.Body.String())
	}

	// Malformed requests never reach the credential lookup.
	require.Zero(t, creds.calls)
}

func TestVerifyUnknownAndWrongPasswordLookAlike(t *testing.T) {
	companyID := uuid.New()
	creds := &fakeCredentials{byUsername: map[string]*model.TenantCredential{
		"portal": newCredential(t, "portal", "hunter2", companyID),
	}}
	a := newTestAPI(creds, &fakeCompanies{})
	router := a.Router()

	unknown := postJSON(router, "/functions/verify-tenant-password", `{"username":"ghost","password":"x"}`)
	wrong := postJSON(router, "/functions/verify-tenant-password", `{"username":"portal","password":"nope"}`)

	require.Equal(t, http.StatusOK, unknown.Code)
	require.Equal(t, http.StatusOK, wrong.Code)
	require.JSONEq(t, `{"valid":false}`, unknown.Body.String())
	require.JSONEq(t, `{"valid":false}`, wrong.Body.String())
}

func TestVerifyMatchReturnsIdentifiers(t *testing.T) {
	companyID := uuid.New()
	cred := newCredential(t, "portal", "hunter2", companyID)
	creds := &fakeCredentials{byUsername: map[string]*model.TenantCredential{"portal": cred}}
	a := newTestAPI(creds, &fakeCompanies{})
	router := a.Router()

	rec := postJSON(router, "/functions/verify-tenant-password", `{"username":"portal","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Valid     bool      `json:"valid"`
		CompanyID uuid.UUID `json:"companyId"`
		TenantID  uuid.UUID `json:"tenantId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Valid)
	require.Equal(t, companyID, resp.CompanyID)
	require.Equal(t, cred.SettingsID, resp.TenantID)
}

func TestVerifyDatabaseFault(t *testing.T) {
	creds := &fakeCredentials{fail: errors.New("connection refused")}
	a := newTestAPI(creds, &fakeCompanies{})
	router := a.Router()

	rec := postJSON(router, "/functions/verify-tenant-password", `{"username":"portal","password":"x"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"Database error"}`, rec.Body.String())
}

func TestPortalLoginIssuesScopedToken(t *testing.T) {
	auth.SetSecret("test-secret")
	t.Cleanup(func() { auth.JWTSecret = nil })

	acme := &model.Company{ID: uuid.New(), Name: "Acme", Slug: "acme"}
	other := &model.Company{ID: uuid.New(), Name: "Other", Slug: "other"}
	creds := &fakeCredentials{byUsername: map[string]*model.TenantCredential{
		"portal": newCredential(t, "portal", "hunter2", acme.ID),
	}}
	companies := &fakeCompanies{bySlug: map[string]*model.Company{
		"acme":  acme,
		"other": other,
	}}
	a := newTestAPI(creds, companies)
	router := a.Router()

	// A credential for another company is rejected like a wrong password.
	rec := postJSON(router, "/c/other/portal/login", `{"username":"portal","password":"hunter2"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())

	rec = postJSON(router, "/c/acme/portal/login", `{"username":"portal","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	claims, err := auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	require.Equal(t, acme.ID.String(), claims.CompanyID)
}

func TestPortalTokenRejectedAcrossCompanies(t *testing.T) {
	auth.SetSecret("test-secret")
	t.Cleanup(func() { auth.JWTSecret = nil })

	acme := &model.Company{ID: uuid.New(), Name: "Acme", Slug: "acme"}
	other := &model.Company{ID: uuid.New(), Name: "Other", Slug: "other"}
	companies := &fakeCompanies{bySlug: map[string]*model.Company{
		"acme":  acme,
		"other": other,
	}}
	a := newTestAPI(&fakeCredentials{}, companies)

	// Same middleware chain as the CRUD routes, with a stub handler so
	// no database is needed.
	router := chi.NewRouter()
	router.Route("/c/{slug}", func(r chi.Router) {
		r.Use(tenant.Resolve(a.Resolver))
		r.Group(func(r chi.Router) {
			r.Use(auth.JWTAuthMiddleware)
			r.Use(a.requireCompanyMatch)
			r.Get("/ping", func(w http.ResponseWriter, req *http.Request) {
				w.Write([]byte("pong"))
			})
		})
	})

	token, err := auth.GenerateToken("portal", uuid.New().String(), acme.ID.String())
	require.NoError(t, err)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, get("/c/acme/ping").Code)
	require.Equal(t, http.StatusUnauthorized, get("/c/other/ping").Code)
}

func TestVerifyRepeatedCallsSameResult(t *testing.T) {
	companyID := uuid.New()
	creds := &fakeCredentials{byUsername: map[string]*model.TenantCredential{
		"portal": newCredential(t, "portal", "hunter2", companyID),
	}}
	a := newTestAPI(creds, &fakeCompanies{})
	router := a.Router()

	var bodies []string
	for i := 0; i < 3; i++ {
		rec := postJSON(router, "/functions/verify-tenant-password", `{"username":"portal","password":"hunter2"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		bodies = append(bodies, rec.Body.String())
	}
	require.Equal(t, bodies[0], bodies[1])
	require.Equal(t, bodies[1], bodies[2])
}

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"punchease/internal/auth"
	"punchease/internal/metrics"
	"punchease/internal/storage"
	"punchease/internal/tenant"

	"golang.org/x/crypto/bcrypt"
)

func (a *API) Router() http.Handler {
	// Public
	a.Routers.Get("/healthz", a.Health)
	a.Routers.Handle("/metrics", metrics.Handler())
	a.Routers.Mount("/swagger", httpSwagger.WrapHandler)

	a.Routers.Post("/functions/verify-tenant-password", a.VerifyTenantPassword)
	a.Routers.Options("/functions/verify-tenant-password", a.VerifyTenantPasswordPreflight)

	a.Routers.Post("/admin/login", a.AdminLogin)

	// Company-scoped
	a.Routers.Route("/c/{slug}", func(r chi.Router) {
		r.Use(tenant.Resolve(a.Resolver))

		r.Post("/portal/login", a.PortalLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.JWTAuthMiddleware)
			r.Use(a.requireCompanyMatch)

			r.Get("/employees", a.ListEmployees)
			r.Post("/employees", a.CreateEmployee)
			r.Put("/employees/{id}", a.UpdateEmployee)
			r.Delete("/employees/{id}", a.DeleteEmployee)

			r.Get("/shifts", a.ListShifts)
			r.Post("/shifts", a.CreateShift)
			r.Put("/shifts/{id}", a.UpdateShift)
			r.Delete("/shifts/{id}", a.DeleteShift)

			r.Get("/temperature-logs", a.ListTemperatureLogs)
			r.Post("/temperature-logs", a.CreateTemperatureLog)
			r.Delete("/temperature-logs/{id}", a.DeleteTemperatureLog)

			r.Get("/customers", a.ListBusinessCustomers)
			r.Post("/customers", a.CreateBusinessCustomer)
			r.Put("/customers/{id}", a.UpdateBusinessCustomer)
			r.Delete("/customers/{id}", a.DeleteBusinessCustomer)

			r.Get("/changes", a.ListChanges)
		})
	})

	// Superadmin console
	a.Routers.Route("/admin", func(r chi.Router) {
		r.Use(auth.JWTAuthMiddleware)
		r.Use(auth.RequireSuperadmin)

		r.Get("/companies", a.ListCompanies)
		r.Post("/companies", a.CreateCompany)
		r.Delete("/companies/{id}", a.DeleteCompany)
		r.Put("/companies/{id}/config/concurrency", a.UpdateConcurrency)
	})

	return a.Routers
}

// @Summary Liveness probe
// @Tags Ops
// @Success 200 {string} string "ok"
// @Router /healthz [get]
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

// requireCompanyMatch rejects portal tokens issued for a different
// company than the one the slug resolved to.
func (a *API) requireCompanyMatch(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		company, ok := tenant.MustCompany(w, r)
		if !ok {
			return
		}
		claims := auth.GetClaims(r)
		if claims == nil || claims.CompanyID != company.ID.String() {
			http.Error(w, "unauthorized tenant", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type verifyRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func corsHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, content-type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
}

// VerifyTenantPasswordPreflight answers the CORS preflight with an empty body
func (a *API) VerifyTenantPasswordPreflight(w http.ResponseWriter, r *http.Request) {
	corsHeaders(w)
	w.WriteHeader(http.StatusOK)
}

// @Summary Verify a tenant portal password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body verifyRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /functions/verify-tenant-password [post]
func (a *API) VerifyTenantPassword(w http.ResponseWriter, r *http.Request) {
	corsHeaders(w)

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	res, err := auth.VerifyTenantPassword(a.Credentials, req.Username, req.Password)
	if err != nil {
		log.Printf("API: password check lookup failed: %v", err)
		metrics.PasswordChecks.WithLabelValues("error").Inc()
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !res.Valid {
		metrics.PasswordChecks.WithLabelValues("invalid").Inc()
		writeJSON(w, http.StatusOK, map[string]interface{}{"valid": false})
		return
	}

	metrics.PasswordChecks.WithLabelValues("valid").Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":     true,
		"companyId": res.CompanyID,
		"tenantId":  res.TenantID,
	})
}

type portalLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// @Summary Log in to a company's tenant portal
// @Tags Auth
// @Accept json
// @Produce json
// @Param slug path string true "Company slug"
// @Param body body portalLoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /c/{slug}/portal/login [post]
func (a *API) PortalLogin(w http.ResponseWriter, r *http.Request) {
	company, ok := tenant.MustCompany(w, r)
	if !ok {
		return
	}

	var req portalLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	res, err := auth.VerifyTenantPassword(a.Credentials, req.Username, req.Password)
	if err != nil {
		log.Printf("API: portal login lookup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	// A credential for another company gets the same generic rejection as
	// a wrong password.
	if !res.Valid || res.CompanyID != company.ID {
		metrics.PortalLogins.WithLabelValues(company.Slug, "rejected").Inc()
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.GenerateToken(req.Username, res.TenantID.String(), res.CompanyID.String())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token generation failed")
		return
	}

	metrics.PortalLogins.WithLabelValues(company.Slug, "accepted").Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":     token,
		"username":  req.Username,
		"companyId": res.CompanyID,
		"tenantId":  res.TenantID,
	})
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// @Summary Log in to the superadmin console
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body adminLoginRequest true "Credentials"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /admin/login [post]
func (a *API) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := a.Storage.UserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	role, err := a.Storage.RoleForUser(user.ID)
	if err != nil || role != "superadmin" {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.GenerateSuperadminToken(user.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token generation failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// @Summary List a company's change feed
// @Tags Changes
// @Security ApiKeyAuth
// @Produce json
// @Param slug path string true "Company slug"
// @Param cursor query string false "Pagination cursor"
// @Success 200 {object} map[string]interface{}
// @Router /c/{slug}/changes [get]
func (a *API) ListChanges(w http.ResponseWriter, r *http.Request) {
	company, ok := tenant.MustCompany(w, r)
	if !ok {
		return
	}

	cursorStr := r.URL.Query().Get("cursor")

	events, nextCursor, err := a.Storage.ListChangeEventsPaginated(company.ID, cursorStr, 10)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":        events,
		"next_cursor": nextCursor,
	})
}

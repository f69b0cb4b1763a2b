// internal/tenant/middleware.go
package tenant

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"punchease/internal/metrics"
	"punchease/internal/model"
)

type contextKey string

const companyKey contextKey = "company"

// Resolve is middleware for /c/{slug} routes. An unknown slug or a lookup
// fault redirects to the application root with no error body; a match
// injects the company into the request context.
func Resolve(resolver *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slug := chi.URLParam(r, "slug")

			company, err := resolver.Resolve(slug)
			if err != nil {
				if !IsNotFound(err) {
					log.Printf("[Tenant] Slug lookup failed for %q: %v", slug, err)
				}
				metrics.SlugResolutions.WithLabelValues("miss").Inc()
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			metrics.SlugResolutions.WithLabelValues("hit").Inc()
			ctx := context.WithValue(r.Context(), companyKey, company)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CompanyFromContext returns the company placed by Resolve. ok is false
// when the route never passed through the middleware, which is a wiring
// mistake, not a runtime condition.
func CompanyFromContext(ctx context.Context) (*model.Company, bool) {
	c, ok := ctx.Value(companyKey).(*model.Company)
	return c, ok
}

// MustCompany answers a misconfigured route loudly instead of guessing a
// tenant.
func MustCompany(w http.ResponseWriter, r *http.Request) (*model.Company, bool) {
	c, ok := CompanyFromContext(r.Context())
	if !ok {
		log.Printf("[Tenant] Handler reached without company context: %s", r.URL.Path)
		http.Error(w, "route not tenant-scoped", http.StatusInternalServerError)
		return nil, false
	}
	return c, true
}

package tenant

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"punchease/internal/model"
	"punchease/internal/storage"
)

type fakeLookup struct {
	companies map[string]*model.Company
	calls     atomic.Int64
	delay     time.Duration
	fail      error
}

func (f *fakeLookup) CompanyBySlug(slug string) (*model.Company, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fail != nil {
		return nil, f.fail
	}
	c, ok := f.companies[slug]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return c, nil
}

func testCompany(slug string) *model.Company {
	return &model.Company{ID: uuid.New(), Name: "Acme", Slug: slug}
}

func TestResolveCachesPositiveResult(t *testing.T) {
	lookup := &fakeLookup{companies: map[string]*model.Company{
		"acme": testCompany("acme"),
	}}
	r := NewResolver(lookup)

	first, err := r.Resolve("acme")
	require.NoError(t, err)

	second, err := r.Resolve("acme")
	require.NoError(t, err)

	require.Same(t, first, second)
	require.EqualValues(t, 1, lookup.calls.Load())
}

func TestResolveUnknownSlugNotCached(t *testing.T) {
	lookup := &fakeLookup{companies: map[string]*model.Company{}}
	r := NewResolver(lookup)

	_, err := r.Resolve("ghost")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = r.Resolve("ghost")
	require.ErrorIs(t, err, storage.ErrNotFound)

	// Misses are retried so a later provisioning is picked up.
	require.EqualValues(t, 2, lookup.calls.Load())
}

func TestResolveCollapsesConcurrentLookups(t *testing.T) {
	lookup := &fakeLookup{
		companies: map[string]*model.Company{"acme": testCompany("acme")},
		delay:     50 * time.Millisecond,
	}
	r := NewResolver(lookup)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Resolve("acme")
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, lookup.calls.Load())
}

func TestInvalidateDropsCacheEntry(t *testing.T) {
	lookup := &fakeLookup{companies: map[string]*model.Company{
		"acme": testCompany("acme"),
	}}
	r := NewResolver(lookup)

	_, err := r.Resolve("acme")
	require.NoError(t, err)

	r.Invalidate("acme")

	_, err = r.Resolve("acme")
	require.NoError(t, err)
	require.EqualValues(t, 2, lookup.calls.Load())
}

func newSlugRouter(r *Resolver) http.Handler {
	router := chi.NewRouter()
	router.Route("/c/{slug}", func(sub chi.Router) {
		sub.Use(Resolve(r))
		sub.Get("/", func(w http.ResponseWriter, req *http.Request) {
			company, ok := MustCompany(w, req)
			if !ok {
				return
			}
			w.Write([]byte(company.Name))
		})
	})
	// Route wired without the middleware, on purpose.
	router.Get("/broken", func(w http.ResponseWriter, req *http.Request) {
		if _, ok := MustCompany(w, req); !ok {
			return
		}
	})
	return router
}

func TestMiddlewareInjectsCompany(t *testing.T) {
	lookup := &fakeLookup{companies: map[string]*model.Company{
		"acme": testCompany("acme"),
	}}
	router := newSlugRouter(NewResolver(lookup))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/c/acme/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Acme", rec.Body.String())
}

func TestMiddlewareRedirectsUnknownSlug(t *testing.T) {
	lookup := &fakeLookup{companies: map[string]*model.Company{}}
	router := newSlugRouter(NewResolver(lookup))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/c/ghost/", nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
	require.EqualValues(t, 1, lookup.calls.Load())
}

func TestMiddlewareRedirectsOnLookupFault(t *testing.T) {
	lookup := &fakeLookup{fail: errors.New("connection refused")}
	router := newSlugRouter(NewResolver(lookup))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/c/acme/", nil))

	// A database fault is indistinguishable from an unknown slug for the
	// caller: silent redirect, no error body.
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
}

func TestMustCompanyFailsLoudOutsideMiddleware(t *testing.T) {
	lookup := &fakeLookup{companies: map[string]*model.Company{}}
	router := newSlugRouter(NewResolver(lookup))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/broken", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

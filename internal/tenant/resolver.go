// internal/tenant/resolver.go
package tenant

import (
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"punchease/internal/model"
	"punchease/internal/storage"
)

// CompanyLookup is the slug query the resolver issues against storage.
type CompanyLookup interface {
	CompanyBySlug(slug string) (*model.Company, error)
}

// Resolver maps URL slugs to companies. Each distinct slug hits storage
// exactly once: positive results are cached for the life of the process,
// and concurrent lookups for the same slug are collapsed into a single
// query. Unknown slugs are not cached, so a company provisioned later is
// picked up on the next request.
type Resolver struct {
	lookup CompanyLookup

	mu    sync.RWMutex
	cache map[string]*model.Company
	group singleflight.Group
}

func NewResolver(lookup CompanyLookup) *Resolver {
	return &Resolver{
		lookup: lookup,
		cache:  make(map[string]*model.Company),
	}
}

// Resolve returns the company for slug, or storage.ErrNotFound when no
// company matches.
func (r *Resolver) Resolve(slug string) (*model.Company, error) {
	r.mu.RLock()
	c, ok := r.cache[slug]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	v, err, _ := r.group.Do(slug, func() (interface{}, error) {
		company, err := r.lookup.CompanyBySlug(slug)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.cache[slug] = company
		r.mu.Unlock()
		return company, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Company), nil
}

// Invalidate drops a slug from the cache, e.g. after the company is
// deleted or renamed.
func (r *Resolver) Invalidate(slug string) {
	r.mu.Lock()
	delete(r.cache, slug)
	r.mu.Unlock()
}

// IsNotFound reports whether err means "no such company".
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}

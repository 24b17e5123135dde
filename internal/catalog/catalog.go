// Package catalog serves the learner-facing course listing: backend
// read-back with a short-lived cache in front, plus a simple title search.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openlearn/coursecraft/internal/courseapi"
	"github.com/openlearn/coursecraft/internal/platform/cache"
)

const (
	coursesCacheKey = "catalog:courses"
	defaultTTL      = 60 * time.Second
)

// Lister is the slice of the backend client the catalog reads from.
type Lister interface {
	ListCourses(ctx context.Context) ([]courseapi.Course, error)
	GetCourse(ctx context.Context, id string) (*courseapi.Course, error)
}

// Catalog lists and reads back published courses. With a nil Lister it
// serves the seed set only (demo mode).
type Catalog struct {
	api   Lister
	cache *cache.Cache
	ttl   time.Duration
	seed  []courseapi.Course
}

// New creates a catalog. The cache may be nil, in which case every List
// hits the backend.
func New(api Lister, c *cache.Cache) *Catalog {
	return &Catalog{
		api:   api,
		cache: c,
		ttl:   defaultTTL,
	}
}

// SetSeed installs the fallback course set served when no backend is
// configured.
func (c *Catalog) SetSeed(courses []courseapi.Course) {
	c.seed = courses
}

// List returns all published courses, from cache when fresh. A fetch
// failure is returned as-is for inline display; there is no automatic
// retry.
func (c *Catalog) List(ctx context.Context) ([]courseapi.Course, error) {
	if c.api == nil {
		return c.seed, nil
	}

	if c.cache != nil {
		var cached []courseapi.Course
		hit, err := c.cache.GetJSON(ctx, coursesCacheKey, &cached)
		if err != nil {
			slog.Warn("catalog cache read failed", "error", err)
		} else if hit {
			return cached, nil
		}
	}

	courses, err := c.api.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading courses: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.SetJSON(ctx, coursesCacheKey, courses, c.ttl); err != nil {
			slog.Warn("catalog cache write failed", "error", err)
		}
	}
	return courses, nil
}

// Search filters the listing by a case-insensitive substring match over
// title and description. An empty query returns everything.
func (c *Catalog) Search(ctx context.Context, query string) ([]courseapi.Course, error) {
	courses, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return courses, nil
	}

	out := []courseapi.Course{}
	for _, course := range courses {
		if strings.Contains(strings.ToLower(course.Title), query) ||
			strings.Contains(strings.ToLower(course.Description), query) {
			out = append(out, course)
		}
	}
	return out, nil
}

// Get reads back one course by ID, bypassing the cache so a just-published
// course is immediately visible.
func (c *Catalog) Get(ctx context.Context, id string) (*courseapi.Course, error) {
	if c.api == nil {
		for _, course := range c.seed {
			if course.ID.String() == id {
				return &course, nil
			}
		}
		return nil, fmt.Errorf("course not found: %s", id)
	}
	return c.api.GetCourse(ctx, id)
}

package quiz

import "fmt"

// LookupCache resolves between quiz slugs and quiz ids. Quizzes are addressed
// by slug in URLs but by id everywhere else, so every slug-addressed fetch
// goes through here first.
//
// The cache is derived state, never authoritative: Build replaces it wholesale
// from the quiz list, and Invalidate only marks it stale. The owner decides
// when to rebuild. Instances are not safe for concurrent use; each consumer
// owns its own, matching the per-view usage it backs.
type LookupCache struct {
	ids   map[string]string // slug -> id
	slugs map[string]string // id -> slug
	stale bool
}

func NewLookupCache() *LookupCache {
	return &LookupCache{
		ids:   make(map[string]string),
		slugs: make(map[string]string),
	}
}

// Build replaces the cache contents with the given entries and clears the
// stale flag. Later duplicates win, mirroring how the entry list is reduced.
func (c *LookupCache) Build(entries []QuizRef) {
	ids := make(map[string]string, len(entries))
	slugs := make(map[string]string, len(entries))
	for _, entry := range entries {
		ids[entry.Slug] = entry.ID
		slugs[entry.ID] = entry.Slug
	}
	c.ids = ids
	c.slugs = slugs
	c.stale = false
}

// ResolveID returns the quiz id for a slug.
func (c *LookupCache) ResolveID(slug string) (string, error) {
	id, ok := c.ids[slug]
	if !ok {
		return "", fmt.Errorf("slug %q: %w", slug, ErrNotFound)
	}
	return id, nil
}

// ResolveSlug returns the slug for a quiz id.
func (c *LookupCache) ResolveSlug(id string) (string, error) {
	slug, ok := c.slugs[id]
	if !ok {
		return "", fmt.Errorf("quiz id %q: %w", id, ErrNotFound)
	}
	return slug, nil
}

// Invalidate marks the cache stale. Existing entries keep resolving until the
// owner rebuilds; a newly created quiz is simply absent until then.
func (c *LookupCache) Invalidate() {
	c.stale = true
}

// Stale reports whether Build must run again before the cache can be trusted
// to contain recently created quizzes.
func (c *LookupCache) Stale() bool {
	return c.stale
}

// Len returns the number of cached quizzes.
func (c *LookupCache) Len() int {
	return len(c.slugs)
}

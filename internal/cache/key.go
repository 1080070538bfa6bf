// Package cache implements the read-through response cache and its
// owner-scoped invalidation. Keys are always tagged with the owning user so
// one owner's entries can be purged without touching anyone else's.
package cache

import (
	"net/url"
	"sort"
	"strings"
)

// AnonymousOwner is the sentinel owner scope for unauthenticated reads.
const AnonymousOwner = "anonymous"

// keyNamespace prefixes every key this package writes, so unrelated keys in
// a shared backend are never touched by invalidation.
const keyNamespace = "cache:user:"

// Key identifies one cacheable read: the owner it belongs to, the request
// path, and the canonicalized query parameters.
type Key struct {
	// Owner is the authenticated user's ID, or AnonymousOwner.
	Owner string

	// Path is the request path (e.g. "/api/v1/contacts").
	Path string

	// Query holds the request's query parameters.
	Query url.Values
}

// String renders the key deterministically:
//
//	cache:user:<owner>:path:<path>[:q:<name>=<value>...]
//
// Parameter names are sorted, and multiple values under one name are sorted
// too, so differently-ordered encodings of the same query produce the same
// key while any difference in owner, path, or parameters produces a
// different key.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(OwnerPrefix(k.Owner))
	b.WriteString("path:")
	b.WriteString(k.Path)

	if len(k.Query) > 0 {
		names := make([]string, 0, len(k.Query))
		for name := range k.Query {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			values := append([]string(nil), k.Query[name]...)
			sort.Strings(values)
			for _, v := range values {
				b.WriteString(":q:")
				b.WriteString(url.QueryEscape(name))
				b.WriteString("=")
				b.WriteString(url.QueryEscape(v))
			}
		}
	}
	return b.String()
}

// OwnerPrefix returns the key prefix shared by all of an owner's entries.
// Deleting this prefix removes exactly that owner's cached responses.
func OwnerPrefix(owner string) string {
	if owner == "" {
		owner = AnonymousOwner
	}
	// Escape so an owner identifier can never smuggle a separator and alias
	// into another owner's scope.
	return keyNamespace + url.QueryEscape(owner) + ":"
}

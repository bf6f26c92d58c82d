// api/store/docstore.go
package store

import "context"

// Document is one stored record: a bag of named fields.
type Document = map[string]any

// Tx exposes reads and writes inside a running transaction. The transaction
// context is captured when the transaction starts.
type Tx interface {
	Get(key string) (Document, bool, error)
	Set(key string, fields Document, merge bool) error
}

// DocStore is a key-addressable document store. Keys are slash-separated
// paths ("analytics/{apikey}/pages/{page}"). Set with merge=true overlays
// the given fields onto an existing document; merge=false replaces it.
// RunTransaction serializes against other transactions touching the same
// documents, retrying on conflict, and commits nothing if fn returns an
// error.
type DocStore interface {
	Get(ctx context.Context, key string) (Document, bool, error)
	Set(ctx context.Context, key string, fields Document, merge bool) error
	// List returns every document whose key starts with prefix + "/",
	// keyed by the remainder of the path.
	List(ctx context.Context, prefix string) (map[string]Document, error)
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error
}

// Key layout under one tenant, mirroring the client-facing data tree.

func pagesPrefix(apiKey string) string    { return "analytics/" + apiKey + "/pages" }
func buttonsPrefix(apiKey string) string  { return "analytics/" + apiKey + "/buttons" }
func journeysPrefix(apiKey string) string { return "analytics/" + apiKey + "/journeys" }
func devicesPrefix(apiKey string) string  { return "analytics/" + apiKey + "/devices" }

func pageKey(apiKey, page string) string     { return pagesPrefix(apiKey) + "/" + page }
func buttonKey(apiKey, button string) string { return buttonsPrefix(apiKey) + "/" + button }
func presenceKey(apiKey string) string       { return "analytics/" + apiKey + "/activeUsers" }

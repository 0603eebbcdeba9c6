// Package cache implements the mtime-based JSON result cache shared by the
// package, git, and vulnerability fetchers (§4.A, §6 "Cache file format").
// It is grounded on the teacher's gitcache/pkg/blob.go, which wraps
// gocloud.dev/blob the same way: a thin Get/Set/Delete shim over a
// *blob.Bucket so the backend is a connection-string knob. Only the
// fileblob and memblob drivers are registered, so file:// and mem://
// locations open; gs://, s3:// and other schemes fail in Open.
package cache

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"

	"github.com/openteamsinc/opensourcescore.dev/internal/log"
)

// TTLs for the three cache namespaces, ported from
// app_utils.py's create_git_metadata_cached / get_vuln_data_cached /
// get_package_data_cached call sites.
const (
	PackageTTL = 24 * time.Hour
	GitTTL     = 24 * time.Hour
	VulnTTL    = 7 * 24 * time.Hour
)

// Cache is a TTL-gated JSON blob store. A nil *Cache (or one opened with
// location "0") makes every Get a miss and every Put a no-op, matching the
// Python original's "CACHE_LOCATION == '0'" escape hatch for tests and local
// runs.
type Cache struct {
	bucket   *blob.Bucket
	disabled bool
	logger   *log.Logger
}

// Open opens the bucket addressed by location ("file:///var/cache/oss-score",
// "mem://", or the literal "0" to disable caching). Any other scheme, such
// as gs:// or s3://, returns an error since no driver for it is registered.
func Open(ctx context.Context, location string, logger *log.Logger) (*Cache, error) {
	if location == "0" {
		return &Cache{disabled: true, logger: logger}, nil
	}
	b, err := blob.OpenBucket(ctx, location)
	if err != nil {
		return nil, err
	}
	return &Cache{bucket: b, logger: logger}, nil
}

// Close releases the underlying bucket, if one was opened.
func (c *Cache) Close() error {
	if c == nil || c.bucket == nil {
		return nil
	}
	return c.bucket.Close()
}

// Result is what Get reports back to a caller: whether the entry is fresh
// enough to use, and the key it looked at (for surfacing as a *-cache-file
// response header per §6).
type Result struct {
	Key string
	Hit bool
}

// Get attempts to read key and unmarshal it into dst, provided the blob's
// mtime is within ttl of now and invalidate is false. A deserialization
// failure is treated as a miss, never an error, exactly like the Python
// original's load_from_cache swallowing every exception and falling back to
// a live fetch.
func (c *Cache) Get(ctx context.Context, key string, ttl time.Duration, invalidate bool, dst any) Result {
	res := Result{Key: key}
	if c == nil || c.disabled || invalidate {
		return res
	}

	attrs, err := c.bucket.Attributes(ctx, key)
	if err != nil {
		return res
	}
	if time.Since(attrs.ModTime) > ttl {
		return res
	}

	raw, err := c.bucket.ReadAll(ctx, key)
	if err != nil {
		return res
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		if c.logger != nil {
			c.logger.V(1).Info("cache entry failed to deserialize, treating as miss", "key", key, "error", err.Error())
		}
		return res
	}

	res.Hit = true
	return res
}

// Put writes value to key as JSON. Caching-disabled is a silent no-op, the
// same contract the teacher's Cache.Set keeps with its httpcache-compatible
// callers.
func (c *Cache) Put(ctx context.Context, key string, value any) error {
	if c == nil || c.disabled {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.bucket.WriteAll(ctx, key, raw, nil)
}

// PackageKey builds the cache key for a registry metadata lookup.
func PackageKey(ecosystem, name string) string {
	return "packages/" + ecosystem + "/" + name + ".json"
}

// GitKey builds the cache key for a git-ingestion result, URL-encoding
// sourceURL the same way the Python original's quote_plus(url) does so a
// URL's slashes and colons don't fracture the key into subdirectories.
func GitKey(sourceURL string) string {
	return "git/" + url.QueryEscape(sourceURL) + ".json"
}

// VulnKey builds the cache key for an OSV vulnerability lookup.
func VulnKey(ecosystem, name string) string {
	return "vuln/" + strings.ToLower(ecosystem) + "/" + name + ".json"
}

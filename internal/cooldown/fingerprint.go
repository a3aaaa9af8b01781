// ABOUTME: Cooldown fingerprint — full 64-bit fnv64a of "dfq:{category}:{trimmed query}" in base36, not truncated
// ABOUTME: Grounded on the teacher's pkg/cache.SelectorCacheKey.String truncated-hash-keyspace idiom

package cooldown

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// Fingerprint computes the stable cooldown key for one (category, query)
// pair. The hash function is fixed (fnv64a) so cooldowns stay meaningful
// across deployments and versions; the full 64-bit value is kept,
// written in base36, and is not truncated. Fingerprint itself only
// trims query, per spec.md §4.7; Gate.Acquire and Gate.Release pass the
// query through unchanged, and job.Handler.Run folds case and width
// (querynorm.Normalize) before calling them so lookalike queries share a
// cooldown. The hash is computed over whatever string the caller passes
// in.
func Fingerprint(category, query string) string {
	h := fnv.New64a()
	h.Write([]byte("dfq:" + category + ":" + strings.TrimSpace(query)))
	return strconv.FormatUint(h.Sum64(), 36)
}

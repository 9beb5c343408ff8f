package classindex

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"gridcore/pkg/domain"
)

// canonicalFilterKey builds a deterministic string encoding of a filter map
// — labels in sorted order, each paired with its operand's sorted object-id
// list, or a distinct marker for the Anything wildcard (spec §9:
// "a canonical filter key (ordered label → sorted Object-id list; anything
// encoded distinctly)").
func canonicalFilterKey(filters map[string]domain.FilterOperand) string {
	labels := make([]string, 0, len(filters))
	for label := range filters {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var b strings.Builder
	for i, label := range labels {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(label)
		b.WriteByte('=')
		op := filters[label]
		if op.IsWildcard() {
			b.WriteString("*")
			continue
		}
		ids := make([]uint64, 0)
		for _, o := range op.Objects() {
			ids = append(ids, o.ID)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for j, id := range ids {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatUint(id, 10))
		}
	}
	return b.String()
}

// memoCacheKey hashes the canonical filter key down to a fixed-size cache
// key for the LRU (spec §9's memoization, backed here by golang-lru +
// xxhash rather than the bare map the spec sketches).
func memoCacheKey(filters map[string]domain.FilterOperand) uint64 {
	return xxhash.Sum64String(canonicalFilterKey(filters))
}

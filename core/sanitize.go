package core

import (
	"sort"

	"github.com/karsk/splinefit/schema"
)

// Sanitize normalizes raw (x, y) pairs into a Dataset satisfying the
// pipeline invariants: no NaN/Inf coordinates, no duplicate x values,
// x strictly increasing.
//
// Duplicates are resolved by keeping the first occurrence in the
// original input order; later observations at the same x are discarded,
// not averaged. Sanitize never fails: an empty result is a valid
// (degenerate) Dataset that downstream stages reject explicitly.
func Sanitize(raw []schema.Sample) schema.Dataset {
	seen := make(map[float64]struct{}, len(raw))
	ds := make(schema.Dataset, 0, len(raw))

	for _, s := range raw {
		if !s.IsFinite() {
			continue
		}
		if _, dup := seen[s.X]; dup {
			continue
		}
		seen[s.X] = struct{}{}
		ds = append(ds, s)
	}

	sort.SliceStable(ds, func(i, j int) bool { return ds[i].X < ds[j].X })
	return ds
}

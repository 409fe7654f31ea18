// Package ainterval implements pure arithmetic over half-open time intervals:
// merge (union), subtract (difference) and intersect. Inputs may be unsorted
// and overlapping; every operation normalizes first. Results are sorted
// ascending by start and pairwise disjoint.
package ainterval

import (
	"sort"

	"github.com/jpfluger/acal-slim/atime"
)

// Merge drops empty intervals, sorts by (start, end) and coalesces. Touching
// endpoints merge: [a,b) followed by [b,c) becomes [a,c).
func Merge(ivs []atime.Interval) []atime.Interval {
	work := make([]atime.Interval, 0, len(ivs))
	for _, iv := range ivs {
		if !iv.IsEmpty() {
			work = append(work, iv)
		}
	}
	if len(work) == 0 {
		return nil
	}

	sort.Slice(work, func(i, j int) bool {
		if !work[i].Start.Equal(work[j].Start) {
			return work[i].Start.Before(work[j].Start)
		}
		return work[i].End.Before(work[j].End)
	})

	out := []atime.Interval{work[0]}
	for _, iv := range work[1:] {
		last := &out[len(out)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

// Subtract removes the union of sub from the union of from. Subtraction never
// widens an interval and preserves order. A shared endpoint alone removes
// nothing under the half-open rule.
func Subtract(from, sub []atime.Interval) []atime.Interval {
	base := Merge(from)
	cuts := Merge(sub)
	if len(cuts) == 0 {
		return base
	}

	var out []atime.Interval
	for _, f := range base {
		remainder := []atime.Interval{f}
		for _, c := range cuts {
			var next []atime.Interval
			for _, r := range remainder {
				if !r.Overlaps(c) {
					next = append(next, r)
					continue
				}
				if prefix := (atime.Interval{Start: r.Start, End: c.Start}); !prefix.IsEmpty() {
					next = append(next, prefix)
				}
				if suffix := (atime.Interval{Start: c.End, End: r.End}); !suffix.IsEmpty() {
					next = append(next, suffix)
				}
			}
			remainder = next
		}
		out = append(out, remainder...)
	}
	return out
}

// Intersect returns the overlap of the two unions via a two-pointer walk.
func Intersect(a, b []atime.Interval) []atime.Interval {
	left := Merge(a)
	right := Merge(b)

	var out []atime.Interval
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		start := left[i].Start
		if right[j].Start.After(start) {
			start = right[j].Start
		}
		end := left[i].End
		if right[j].End.Before(end) {
			end = right[j].End
		}
		if iv := (atime.Interval{Start: start, End: end}); !iv.IsEmpty() {
			out = append(out, iv)
		}
		// Advance whichever interval ends first.
		if left[i].End.Before(right[j].End) {
			i++
		} else {
			j++
		}
	}
	return out
}

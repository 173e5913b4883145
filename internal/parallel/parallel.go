// Package parallel splits index ranges across goroutines.
package parallel

import "sync"

// For calls f(i) for every i in [0, n) using up to workers goroutines, each
// over a contiguous chunk. With workers <= 1 or n <= 1 it runs inline.
func For(n, workers int, f func(i int)) {
	if workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	for _, r := range Split(n, workers) {
		wg.Add(1)
		go func(r Range) {
			defer wg.Done()
			for i := r.Start; i < r.End; i++ {
				f(i)
			}
		}(r)
	}
	wg.Wait()
}

// Range is a half-open interval [Start, End).
type Range struct {
	Start, End int
}

// Len returns End - Start.
func (r Range) Len() int {
	return r.End - r.Start
}

// Split divides [0, n) into at most parts contiguous, non-empty ranges whose
// lengths differ by at most one. Earlier ranges get the extra items.
func Split(n, parts int) []Range {
	if n <= 0 {
		return nil
	}
	parts = min(max(parts, 1), n)

	ranges := make([]Range, parts)
	base, extra := n/parts, n%parts
	start := 0
	for i := range ranges {
		size := base
		if i < extra {
			size++
		}
		ranges[i] = Range{Start: start, End: start + size}
		start += size
	}
	return ranges
}

// ForRanges splits [0, n) into one range per worker and runs f on each
// range on its own goroutine. It returns once every call has finished.
func ForRanges(n, workers int, f func(worker int, r Range)) {
	ranges := Split(n, workers)
	For(len(ranges), len(ranges), func(i int) {
		f(i, ranges[i])
	})
}

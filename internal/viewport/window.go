// Package viewport computes which slice of a long, fixed-height list must be
// materialised for a given scroll position.
package viewport

// Range is a half-open index range [Start, End) over the list.
type Range struct {
	Start int
	End   int
}

// Len is the number of items in the range.
func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether i falls inside the range.
func (r Range) Contains(i int) bool { return i >= r.Start && i < r.End }

// Spacers returns the heights standing in for the items before and after the
// range.
func (r Range) Spacers(itemHeight, total int) (top, bottom int) {
	return r.Start * itemHeight, (total - r.End) * itemHeight
}

// ComputeRange returns the items intersecting the viewport plus buffer items
// on each side. The result always satisfies 0 <= Start <= End <= total.
func ComputeRange(scrollOffset, viewportHeight, itemHeight, buffer, total int) Range {
	if total <= 0 {
		return Range{}
	}
	if itemHeight <= 0 {
		itemHeight = 1
	}
	scrollOffset = max(0, scrollOffset)
	viewportHeight = max(0, viewportHeight)
	buffer = max(0, buffer)

	start := max(0, scrollOffset/itemHeight-buffer)
	end := min(total, ceilDiv(scrollOffset+viewportHeight, itemHeight)+buffer)
	start = min(start, end)
	return Range{Start: start, End: end}
}

// ScrollOffsetFor returns the offset that centres target in the viewport.
func ScrollOffsetFor(target, viewportHeight, itemHeight int) int {
	return max(0, target*itemHeight-viewportHeight/2+itemHeight/2)
}

// MaxScrollOffset is the largest offset that still fills the viewport.
func MaxScrollOffset(viewportHeight, itemHeight, total int) int {
	return max(0, total*itemHeight-viewportHeight)
}

// ClampOffset bounds offset to [0, MaxScrollOffset].
func ClampOffset(offset, viewportHeight, itemHeight, total int) int {
	return min(max(0, offset), MaxScrollOffset(viewportHeight, itemHeight, total))
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

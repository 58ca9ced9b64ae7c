package bmoc

// Builder accumulates cells pushed in ascending depth-mixed order and
// packs them into a BMOC. Four fully covered siblings merge into their
// parent as soon as the fourth is pushed, cascading upward, so the
// result is compact without a separate compression pass.
type Builder struct {
	depthMax uint8
	cells    []Cell
}

// NewBuilder returns a builder for cells no deeper than depthMax.
// hint preallocates the backing storage.
func NewBuilder(depthMax uint8, hint int) *Builder {
	if hint < 0 {
		hint = 0
	}
	return &Builder{depthMax: depthMax, cells: make([]Cell, 0, hint)}
}

// Push appends a cell. Cells must arrive in ascending depth-mixed
// order and must not overlap previously pushed cells.
func (b *Builder) Push(depth uint8, index uint64, full bool) {
	b.cells = append(b.cells, Cell{Depth: depth, Index: index, Full: full})
	if full {
		b.mergeTail()
	}
}

// mergeTail collapses a complete group of four fully covered siblings
// at the tail into their parent, repeating while the replacement
// completes another group.
func (b *Builder) mergeTail() {
	for {
		n := len(b.cells)
		if n < 4 {
			return
		}
		last := b.cells[n-1]
		if !last.Full || last.Depth == 0 || last.Index&3 != 3 {
			return
		}
		for i := 1; i < 4; i++ {
			c := b.cells[n-1-i]
			if !c.Full || c.Depth != last.Depth || c.Index != last.Index-uint64(i) {
				return
			}
		}
		b.cells = b.cells[:n-3]
		b.cells[n-4] = Cell{Depth: last.Depth - 1, Index: last.Index >> 2, Full: true}
	}
}

// pushAncestor records the ancestor of a too-deep cell as partially
// covered, skipping it when the previous record is that same ancestor.
// Ancestors never take part in sibling merging since they are partial.
func (b *Builder) pushAncestor(index uint64, depth uint8) {
	if n := len(b.cells); n > 0 {
		if c := b.cells[n-1]; c.Depth == depth && c.Index == index {
			return
		}
	}
	b.cells = append(b.cells, Cell{Depth: depth, Index: index, Full: false})
}

// Build packs the accumulated cells. The builder stays usable and
// further pushes do not affect the returned set.
func (b *Builder) Build() *BMOC {
	entries := make([]uint64, len(b.cells))
	for i, c := range b.cells {
		entries[i] = rawValue(b.depthMax, c.Depth, c.Index, c.Full)
	}
	return &BMOC{depthMax: b.depthMax, entries: entries}
}

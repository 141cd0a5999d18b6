//go:build baremetal

package vga

import "unsafe"

// PhysAddr is the physical address of the colour text-mode frame buffer.
const PhysAddr uintptr = 0xB8000

//go:noescape
func loadUint16(addr *uint16) uint16

//go:noescape
func storeUint16(addr *uint16, val uint16)

// Physical is a Region over identity-mapped video memory. Accesses go
// through assembly so the compiler can neither elide nor reorder them.
type Physical struct {
	words []uint16
}

// NewPhysical maps n cells starting at addr. The memory is not owned; addr
// must be mapped and must stay mapped for the lifetime of the region.
func NewPhysical(addr uintptr, n int) *Physical {
	return &Physical{words: unsafe.Slice((*uint16)(unsafe.Pointer(addr)), n)}
}

func (p *Physical) Len() int { return len(p.words) }

func (p *Physical) Load(i int) Cell {
	return CellFromWord(loadUint16(&p.words[i]))
}

func (p *Physical) Store(i int, c Cell) {
	storeUint16(&p.words[i], c.Word())
}

//go:build baremetal

package port

// Hardware issues real IN/OUT instructions. It only works in a context with
// I/O privilege (ring 0 or an IOPL/bitmap grant); anywhere else the first
// access faults.
type Hardware struct{}

func hwIn8(addr uint16) uint8
func hwIn16(addr uint16) uint16
func hwIn32(addr uint16) uint32
func hwOut8(addr uint16, v uint8)
func hwOut16(addr uint16, v uint16)
func hwOut32(addr uint16, v uint32)

func (Hardware) In8(addr uint16) uint8   { return hwIn8(addr) }
func (Hardware) In16(addr uint16) uint16 { return hwIn16(addr) }
func (Hardware) In32(addr uint16) uint32 { return hwIn32(addr) }

func (Hardware) Out8(addr uint16, v uint8)   { hwOut8(addr, v) }
func (Hardware) Out16(addr uint16, v uint16) { hwOut16(addr, v) }
func (Hardware) Out32(addr uint16, v uint32) { hwOut32(addr, v) }

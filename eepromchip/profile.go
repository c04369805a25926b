package eepromchip

import "time"

// Profile describes one member of the 25LCxxx family: its geometry, its
// electronic signature and the settle times of its internal write logic.
// The driver is written against a Profile so that siblings sharing the
// command set can be added without touching the command code.
type Profile struct {
	// Name is the vendor part number, used in log output only.
	Name string

	// PageSize is the size in bytes of the atomic write unit.
	PageSize int

	// NumPages is the number of pages in the array.
	NumPages int

	// Identity is the electronic signature returned by the release from
	// deep power-down command.
	Identity byte

	// WriteDelay is slept after issuing a page write, before the WIP bit
	// is polled. The poll loop is what actually decides completion; the
	// sleep just avoids hammering the bus during the guaranteed-busy
	// window.
	WriteDelay time.Duration

	// EraseDelay is the same for chip, sector and page erase.
	EraseDelay time.Duration
}

// Profile25LC512 is the Microchip 25LC512: 64 KiB as 512 pages of 128 bytes.
// The 25LC1024 shares the command set and signature but needs 24-bit
// addressing, which the 16-bit framing here does not reach.
var Profile25LC512 = &Profile{
	Name:       "25LC512",
	PageSize:   128,
	NumPages:   512,
	Identity:   0x29,
	WriteDelay: 3300 * time.Microsecond,
	EraseDelay: 6800 * time.Microsecond,
}

// Size returns the capacity of the array in bytes.
func (p *Profile) Size() int {
	return p.PageSize * p.NumPages
}

// ValidPage reports whether page is addressable on this device.
func (p *Profile) ValidPage(page int) bool {
	return page >= 0 && page < p.NumPages
}

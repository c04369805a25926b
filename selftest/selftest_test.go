package selftest

import (
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/zephyr-labs/eeprom25lc/eepromchip"
)

var simProfile = &eepromchip.Profile{
	Name:       "sim",
	PageSize:   128,
	NumPages:   8,
	Identity:   0x29,
	WriteDelay: time.Microsecond,
	EraseDelay: time.Microsecond,
}

// fakeEEPROM is a scriptable device for sequencer scenarios: it can report
// the wrong signature, refuse to erase, or corrupt single bytes on
// readback.
type fakeEEPROM struct {
	t       *testing.T
	profile *eepromchip.Profile
	mem     []byte

	identity   byte
	eraseWorks bool

	// corrupt, if non-nil, may alter a byte as it is read back.
	corrupt func(addr int, b byte) byte

	writes    int
	erases    int
	powerDown bool
}

func newFakeEEPROM(t *testing.T) *fakeEEPROM {
	f := &fakeEEPROM{
		t:          t,
		profile:    simProfile,
		mem:        make([]byte, simProfile.Size()),
		identity:   simProfile.Identity,
		eraseWorks: true,
	}
	return f
}

func (f *fakeEEPROM) txfr(tx []byte, rx []byte) error {
	switch tx[0] {
	case 0x05: // read status, never busy
		rx[1] = 0
	case 0xAB: // release / read signature
		f.powerDown = false
		rx[3] = f.identity
	case 0x06, 0x04: // write latch
	case 0xC7: // chip erase
		f.erases++
		if f.eraseWorks {
			for i := range f.mem {
				f.mem[i] = 0xFF
			}
		}
	case 0x02: // page write
		f.writes++
		addr := int(binary.BigEndian.Uint16(tx[1:3]))
		copy(f.mem[addr:], tx[3:])
	case 0x03: // page read
		addr := int(binary.BigEndian.Uint16(tx[1:3]))
		for i := range tx[3:] {
			b := f.mem[addr+i]
			if f.corrupt != nil {
				b = f.corrupt(addr+i, b)
			}
			rx[3+i] = b
		}
	case 0xB9: // deep power-down
		f.powerDown = true
	default:
		f.t.Errorf("unexpected opcode 0x%02x", tx[0])
	}
	return nil
}

func (f *fakeEEPROM) chip() *eepromchip.Chip {
	return eepromchip.New(f.txfr, f.profile)
}

func TestRunCleanDevice(t *testing.T) {
	fake := newFakeEEPROM(t)

	report, err := Run(fake.chip(), t.Logf)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !report.Ok() {
		t.Errorf("expected clean report, got %d miscompares", len(report.Miscompares))
	}
	if report.Pages != simProfile.NumPages {
		t.Errorf("scanned %d pages, expected %d", report.Pages, simProfile.NumPages)
	}
	if fake.writes != simProfile.NumPages {
		t.Errorf("wrote %d pages, expected %d", fake.writes, simProfile.NumPages)
	}
	if !fake.powerDown {
		t.Errorf("device not powered down after a successful run")
	}

	// Every page must hold the counting pattern.
	for page := 0; page < simProfile.NumPages; page++ {
		base := page * simProfile.PageSize
		for i := 0; i < simProfile.PageSize; i++ {
			if fake.mem[base+i] != byte(i) {
				t.Fatalf("page %d byte %d holds 0x%02x", page, i, fake.mem[base+i])
			}
		}
	}
}

func TestRunWrongDevice(t *testing.T) {
	fake := newFakeEEPROM(t)
	fake.identity = 0x13

	_, err := Run(fake.chip(), t.Logf)

	var dmErr *eepromchip.DeviceMismatchError
	if !errors.As(err, &dmErr) {
		t.Fatalf("expected DeviceMismatchError, got %v", err)
	}
	if fake.erases != 0 || fake.writes != 0 {
		t.Errorf("wrong device was still touched: %d erases, %d writes", fake.erases, fake.writes)
	}
	if !fake.powerDown {
		t.Errorf("device not powered down after signature mismatch")
	}
}

func TestRunEraseVerifyFailure(t *testing.T) {
	fake := newFakeEEPROM(t)
	fake.eraseWorks = false

	_, err := Run(fake.chip(), t.Logf)

	var evErr *eepromchip.EraseVerifyError
	if !errors.As(err, &evErr) {
		t.Fatalf("expected EraseVerifyError, got %v", err)
	}
	if evErr.Actual != 0x00 {
		t.Errorf("reported byte 0x%02x, expected 0x00", evErr.Actual)
	}
	if fake.writes != 0 {
		t.Errorf("%d writes issued after failed erase verification", fake.writes)
	}
	if !fake.powerDown {
		t.Errorf("device not powered down after failed erase verification")
	}
}

func TestRunReportsMiscompare(t *testing.T) {
	fake := newFakeEEPROM(t)

	// Page 3, last byte reads back wrong.
	badAddr := 3*simProfile.PageSize + 127
	fake.corrupt = func(addr int, b byte) byte {
		if addr == badAddr {
			return 99
		}
		return b
	}

	report, err := Run(fake.chip(), t.Logf)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.Miscompares) != 1 {
		t.Fatalf("expected exactly 1 miscompare, got %d", len(report.Miscompares))
	}

	m := report.Miscompares[0]
	if m.Page != 3 || m.Offset != 127 || m.Expected != 127 || m.Actual != 99 {
		t.Errorf("unexpected miscompare: %+v", m)
	}

	// The scan must not have stopped at page 3.
	if report.Pages != simProfile.NumPages {
		t.Errorf("scan covered %d pages, expected %d", report.Pages, simProfile.NumPages)
	}
	if !fake.powerDown {
		t.Errorf("device not powered down after scan")
	}
}

// Package selftest exercises a full EEPROM: erase the array, confirm the
// erase took, write a known pattern to every page, read every page back
// and compare. It is the software half of a bench test; the other half is
// a scope on the bus.
package selftest

import (
	"fmt"

	"github.com/zephyr-labs/eeprom25lc/eepromchip"
)

// Miscompare records one read-back byte that differs from what was
// written.
type Miscompare struct {
	Page     int
	Offset   int
	Expected byte
	Actual   byte
}

func (m Miscompare) String() string {
	return fmt.Sprintf("page %d byte %d: wrote 0x%02x, read 0x%02x",
		m.Page, m.Offset, m.Expected, m.Actual)
}

// Report is the outcome of a completed scan. Miscompares holds every
// differing byte; an empty slice means the device stored and returned the
// pattern perfectly.
type Report struct {
	Pages       int
	Miscompares []Miscompare
}

// Ok reports whether the scan found no miscompares.
func (r *Report) Ok() bool {
	return len(r.Miscompares) == 0
}

// referencePage builds the pattern written to every page: bytes counting
// up from 0.
func referencePage(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i)
	}
	return data
}

// Run drives the full test sequence against chip. logf, if non-nil,
// receives progress and miscompare reports as they happen.
//
// A signature mismatch or a failed erase verification is terminal and
// returned as an error; the device is put into deep power-down on those
// paths as well as on success. Miscompares during the final scan are
// collected in the Report and never abort the scan. Releasing the bus
// handle is the caller's job.
func Run(chip *eepromchip.Chip, logf eepromchip.LogFunc) (*Report, error) {
	log := func(format string, params ...interface{}) {
		if logf != nil {
			logf(format, params...)
		}
	}

	profile := chip.Profile()

	log("Checking electronic signature")

	if err := chip.Probe(); err != nil {
		chip.PowerDown()
		return nil, err
	}

	log("Erasing device")

	if err := chip.EraseChip(); err != nil {
		chip.PowerDown()
		return nil, fmt.Errorf("chip erase: %w", err)
	}

	log("Reading page 0, byte 0 to validate erase")

	first, err := chip.ReadPage(0, 1)
	if err != nil {
		chip.PowerDown()
		return nil, fmt.Errorf("erase verification read: %w", err)
	}

	if first[0] != 0xFF {
		chip.PowerDown()
		return nil, &eepromchip.EraseVerifyError{Page: 0, Offset: 0, Actual: first[0]}
	}

	reference := referencePage(profile.PageSize)

	log("Writing %d pages", profile.NumPages)

	for page := 0; page < profile.NumPages; page++ {
		if err := chip.WritePage(page, reference); err != nil {
			chip.PowerDown()
			return nil, fmt.Errorf("write page %d: %w", page, err)
		}
	}

	log("Reading all pages back and comparing")

	report := &Report{Pages: profile.NumPages}

	for page := 0; page < profile.NumPages; page++ {
		data, err := chip.ReadPage(page, profile.PageSize)
		if err != nil {
			chip.PowerDown()
			return nil, fmt.Errorf("read page %d: %w", page, err)
		}

		for i := range data {
			if data[i] != reference[i] {
				m := Miscompare{
					Page:     page,
					Offset:   i,
					Expected: reference[i],
					Actual:   data[i],
				}
				log("Data miscompare: %s", m)
				report.Miscompares = append(report.Miscompares, m)
			}
		}
	}

	log("Scan complete: %d pages, %d miscompares", report.Pages, len(report.Miscompares))

	if err := chip.PowerDown(); err != nil {
		return report, fmt.Errorf("power down: %w", err)
	}

	return report, nil
}

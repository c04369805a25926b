// Package eepromchip implements a Golang driver for the Microchip
// 25LC512/25LC1024 family of SPI EEPROMs: the instruction set, the
// write-enable discipline and the status polling that write and erase
// cycles require. The SPI bus itself is supplied by the caller as a
// transfer function, see chipopen for a periph.io based implementation.
package eepromchip

import (
	"time"
)

type LogFunc func(format string, params ...interface{})

// SPIFunc performs one SPI transaction with the chip select asserted for
// the whole frame. When rx is non-nil it must be the same length as tx and
// receives the bytes clocked in during the exchange; when rx is nil the
// response is discarded (write-only command).
type SPIFunc func(tx []byte, rx []byte) error

// Chip drives one EEPROM on one chip-select line. Operations must not be
// issued concurrently: the bus transaction plus the busy window after a
// write-class command form one indivisible unit.
type Chip struct {
	spiFunc SPIFunc
	profile *Profile

	config config
}

// New returns a driver for the device described by profile, reachable
// through spiFunc.
func New(spiFunc SPIFunc, profile *Profile, opts ...Option) *Chip {
	if spiFunc == nil {
		panic("spiFunc cannot be nil")
	}
	if profile == nil {
		profile = Profile25LC512
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Chip{
		spiFunc: spiFunc,
		profile: profile,
		config:  cfg,
	}
}

func (c *Chip) log(format string, params ...interface{}) {
	if c.config.logFunc != nil {
		c.config.logFunc(" * "+format, params...)
	}
}

// Profile returns the device profile the driver was built with.
func (c *Chip) Profile() *Profile {
	return c.profile
}

// exchange clocks tx out and returns the full-duplex response.
func (c *Chip) exchange(tx []byte) ([]byte, error) {
	rx := make([]byte, len(tx))
	if err := c.spiFunc(tx, rx); err != nil {
		return nil, err
	}
	return rx, nil
}

// ReadStatus reads the status register. Only bit 0 (WIP) has meaning to
// this driver; the rest is returned as-is.
func (c *Chip) ReadStatus() (byte, error) {
	rx, err := c.exchange(statusReadFrame())
	if err != nil {
		return 0, err
	}

	c.log("Status 0x%02x", rx[1])

	return rx[1], nil
}

// WriteStatus writes the status register, typically to change the block
// protection bits. The latch discipline is the same as for array writes.
func (c *Chip) WriteStatus(v byte) error {
	if err := c.WriteEnable(); err != nil {
		return err
	}

	if err := c.spiFunc(statusWriteFrame(v), nil); err != nil {
		return err
	}

	return c.WaitUntilReady()
}

// ReadIdentity releases the device from deep power-down and returns its
// electronic signature byte. This is the only command the device honors
// while powered down.
func (c *Chip) ReadIdentity() (byte, error) {
	rx, err := c.exchange(releaseReadIDFrame())
	if err != nil {
		return 0, err
	}

	c.log("Signature 0x%02x", rx[3])

	return rx[3], nil
}

// Probe reads the electronic signature and checks it against the profile.
func (c *Chip) Probe() error {
	id, err := c.ReadIdentity()
	if err != nil {
		return err
	}

	if id != c.profile.Identity {
		return &DeviceMismatchError{Expected: c.profile.Identity, Actual: id}
	}

	return nil
}

// WriteEnable sets the write enable latch. The device clears the latch by
// itself after every write-class command, so the driver issues this before
// each one rather than tracking latch state.
func (c *Chip) WriteEnable() error {
	return c.spiFunc(writeEnableFrame(), nil)
}

// WriteDisable clears the write enable latch.
func (c *Chip) WriteDisable() error {
	return c.spiFunc(writeDisableFrame(), nil)
}

// WaitUntilReady polls the status register until the WIP bit clears. With
// no poll deadline configured this blocks for as long as the device stays
// busy.
func (c *Chip) WaitUntilReady() error {
	start := time.Now()

	for {
		status, err := c.ReadStatus()
		if err != nil {
			return err
		}

		if status&statusWIP == 0 {
			return nil
		}

		if c.config.pollDeadline != 0 && time.Since(start) > c.config.pollDeadline {
			return &PollTimeoutError{Deadline: c.config.pollDeadline, Status: status}
		}

		time.Sleep(c.config.pollInterval)
	}
}

// eraseWait is the common tail of every erase variant: the datasheet settle
// sleep followed by the WIP poll that decides actual completion.
func (c *Chip) eraseWait() error {
	time.Sleep(c.profile.EraseDelay)
	return c.WaitUntilReady()
}

// EraseChip resets every byte of the array to 0xFF.
func (c *Chip) EraseChip() error {
	if err := c.WriteEnable(); err != nil {
		return err
	}

	c.log("Erasing all sectors")

	if err := c.spiFunc(chipEraseFrame(), nil); err != nil {
		return err
	}

	return c.eraseWait()
}

// ErasePage resets one page to 0xFF.
func (c *Chip) ErasePage(page int) error {
	if err := c.WriteEnable(); err != nil {
		return err
	}

	c.log("Erasing page %d", page)

	if err := c.spiFunc(pageEraseFrame(c.profile, page), nil); err != nil {
		return err
	}

	return c.eraseWait()
}

// EraseSector resets the sector containing page to 0xFF.
func (c *Chip) EraseSector(page int) error {
	if err := c.WriteEnable(); err != nil {
		return err
	}

	c.log("Erasing sector of page %d", page)

	if err := c.spiFunc(sectorEraseFrame(c.profile, page), nil); err != nil {
		return err
	}

	return c.eraseWait()
}

// WritePage writes payload starting at the beginning of page. Payloads
// longer than the page size are rejected before any bus traffic; the
// device would otherwise wrap within the page. Returns once the internal
// write cycle has finished.
func (c *Chip) WritePage(page int, payload []byte) error {
	frame, err := pageWriteFrame(c.profile, page, payload)
	if err != nil {
		return err
	}

	if err := c.WriteEnable(); err != nil {
		return err
	}

	c.log("Writing %d bytes to page %d", len(payload), page)

	if err := c.spiFunc(frame, nil); err != nil {
		return err
	}

	time.Sleep(c.profile.WriteDelay)

	return c.WaitUntilReady()
}

// ReadPage returns n bytes from the beginning of page. Reads need neither
// the write latch nor polling, the array is always readable when idle.
func (c *Chip) ReadPage(page int, n int) ([]byte, error) {
	rx, err := c.exchange(pageReadFrame(c.profile, page, n))
	if err != nil {
		return nil, err
	}

	return rx[3:], nil
}

// PowerDown puts the device into deep power-down. Every command except
// ReadIdentity is ignored until released.
func (c *Chip) PowerDown() error {
	c.log("Entering deep power-down")

	return c.spiFunc(deepPowerDownFrame(), nil)
}

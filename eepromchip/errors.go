package eepromchip

import (
	"fmt"
	"time"
)

// DeviceMismatchError indicates that the electronic signature read from the
// device does not match the profile's. Either the wrong part is on the bus
// or nothing is answering at all.
type DeviceMismatchError struct {
	Expected byte
	Actual   byte
}

func (e *DeviceMismatchError) Error() string {
	return fmt.Sprintf("device mismatch: expected signature 0x%02X, read 0x%02X",
		e.Expected, e.Actual)
}

// PageSizeError indicates a write payload longer than the device's page.
// The write is rejected before any bus transaction takes place.
type PageSizeError struct {
	Len      int
	PageSize int
}

func (e *PageSizeError) Error() string {
	return fmt.Sprintf("payload is %d bytes, page size is %d bytes", e.Len, e.PageSize)
}

// EraseVerifyError indicates that a byte read back after a chip erase was
// not 0xFF.
type EraseVerifyError struct {
	Page   int
	Offset int
	Actual byte
}

func (e *EraseVerifyError) Error() string {
	return fmt.Sprintf("erase verification failed: page %d byte %d is 0x%02X, expected 0xFF",
		e.Page, e.Offset, e.Actual)
}

// PollTimeoutError indicates that the WIP bit did not clear within the
// configured poll deadline. Only returned when a deadline is set; the
// default is to wait forever, matching the device semantics.
type PollTimeoutError struct {
	Deadline time.Duration
	Status   byte
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("device still busy after %v (status 0x%02X)", e.Deadline, e.Status)
}

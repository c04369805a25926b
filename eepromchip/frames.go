package eepromchip

import "encoding/binary"

// Instruction set of the 25LC512/25LC1024 family.
const (
	opRDSR  = 0x05 // read status register
	opWRSR  = 0x01 // write status register
	opWREN  = 0x06 // set write enable latch
	opWRDI  = 0x04 // clear write enable latch
	opWRITE = 0x02 // begin write sequence
	opREAD  = 0x03 // begin read sequence
	opPE    = 0x42 // page erase
	opSE    = 0xD8 // sector erase
	opCE    = 0xC7 // chip erase
	opRDID  = 0xAB // release from deep power-down / read signature
	opDPD   = 0xB9 // enter deep power-down
)

// statusWIP is bit 0 of the status register: an internal write or erase
// cycle is in progress. All other bits are left uninterpreted.
const statusWIP = 0x01

// Frame builders. Each returns a freshly allocated buffer holding the full
// transaction: opcode, then for addressed commands the 16-bit big-endian
// byte offset, then payload or dummy bytes that the exchange overwrites
// with the device's response.

func statusReadFrame() []byte {
	// Response status byte lands at index 1.
	return []byte{opRDSR, 0}
}

func statusWriteFrame(v byte) []byte {
	return []byte{opWRSR, v}
}

func releaseReadIDFrame() []byte {
	// Response signature byte lands at index 3.
	return []byte{opRDID, 0, 0, 0}
}

func writeEnableFrame() []byte {
	return []byte{opWREN}
}

func writeDisableFrame() []byte {
	return []byte{opWRDI}
}

func chipEraseFrame() []byte {
	return []byte{opCE}
}

func deepPowerDownFrame() []byte {
	return []byte{opDPD}
}

// addressedFrame builds op + 16-bit big-endian byte offset of page,
// followed by extra zero bytes. page × PageSize must fit in 16 bits;
// for the fixed 512×128 geometry every valid page does.
func addressedFrame(p *Profile, op byte, page int, extra int) []byte {
	f := make([]byte, 3+extra)
	f[0] = op
	binary.BigEndian.PutUint16(f[1:3], uint16(page*p.PageSize))
	return f
}

func pageEraseFrame(p *Profile, page int) []byte {
	return addressedFrame(p, opPE, page, 0)
}

func sectorEraseFrame(p *Profile, page int) []byte {
	return addressedFrame(p, opSE, page, 0)
}

func pageReadFrame(p *Profile, page int, n int) []byte {
	return addressedFrame(p, opREAD, page, n)
}

func pageWriteFrame(p *Profile, page int, payload []byte) ([]byte, error) {
	if len(payload) > p.PageSize {
		return nil, &PageSizeError{Len: len(payload), PageSize: p.PageSize}
	}

	f := addressedFrame(p, opWRITE, page, len(payload))
	copy(f[3:], payload)
	return f, nil
}

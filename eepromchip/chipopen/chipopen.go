// Package chipopen opens an EEPROM on a platform SPI bus using periph.io
// and binds it to an eepromchip driver.
package chipopen

import (
	"fmt"

	"github.com/zephyr-labs/eeprom25lc/eepromchip"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Device is an opened EEPROM together with the bus it lives on. Close
// releases the SPI port; it must run on every exit path, including early
// failures.
type Device struct {
	*eepromchip.Chip

	port spi.PortCloser
}

func (d *Device) Close() error {
	return d.port.Close()
}

// Open initializes the host, opens the SPI port registered under busID
// (the empty string selects the first available port) and configures it
// for the device: mode 0, 8 bits per word, the given clock speed. The
// returned Device owns the port.
func Open(busID string, speed physic.Frequency, profile *eepromchip.Profile, opts ...eepromchip.Option) (*Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("could not init host: %v", err)
	}

	port, err := spireg.Open(busID)
	if err != nil {
		return nil, fmt.Errorf("could not open port: %v", err)
	}

	conn, err := port.Connect(speed, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("could not configure port: %v", err)
	}

	spiTxfr := func(tx []byte, rx []byte) error {
		return conn.Tx(tx, rx)
	}

	return &Device{
		Chip: eepromchip.New(spiTxfr, profile, opts...),
		port: port,
	}, nil
}

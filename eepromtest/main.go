package main

import (
	"flag"
	"log"
	"os"

	"github.com/zephyr-labs/eeprom25lc/eepromchip"
	"github.com/zephyr-labs/eeprom25lc/eepromchip/chipopen"
	"github.com/zephyr-labs/eeprom25lc/selftest"
	"periph.io/x/conn/v3/physic"
)

func main() {
	busID := flag.String("dev", "", "SPI port to use (empty selects the first one)")
	speed := flag.Int("speed", 10000000, "SPI clock speed in Hz")
	verbose := flag.Bool("verbose", false, "Enable bus-level logging")

	flag.Parse()

	logOut := eepromchip.LogFunc(log.Printf)
	if !*verbose {
		logOut = nil
	}

	dev, err := chipopen.Open(*busID, physic.Frequency(*speed)*physic.Hertz,
		eepromchip.Profile25LC512, eepromchip.WithLogFunc(logOut))
	if err != nil {
		log.Printf("Failed to open device: %v", err)
		os.Exit(1)
	}
	defer dev.Close()

	log.Printf("Testing %s on SPI port '%s'", dev.Profile().Name, *busID)

	report, err := selftest.Run(dev.Chip, log.Printf)
	if err != nil {
		log.Printf("Test terminated: %v", err)
		os.Exit(1)
	}

	if report.Ok() {
		log.Printf("Test complete: %d pages verified", report.Pages)
	} else {
		log.Printf("Test complete: %d miscompares across %d pages",
			len(report.Miscompares), report.Pages)
	}
}

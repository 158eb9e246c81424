package printer

import (
	"fmt"
	"slices"
	"time"

	"go.bug.st/serial"

	logInternal "github.com/AlexStarov/escpos-landscape/log"
)

// NewSerialPrinter создаёт Printer через последовательный порт (COM или /dev/ttyUSB*).
func NewSerialPrinter(portName string, baudRate int) (*Printer, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	logInternal.Debugf("serial ports: %v", ports)

	if !slices.Contains(ports, portName) {
		return nil, fmt.Errorf("serial port %s not found", portName)
	}

	mode := &serial.Mode{
		BaudRate: baudRate,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}
	if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
		port.Close()
		return nil, fmt.Errorf("serial port %s: %w", portName, err)
	}
	logInternal.Debugf("serial port %s opened at %d baud", portName, baudRate)

	p, err := NewPrinter(port)
	if err != nil {
		port.Close()
		return nil, err
	}

	// XON: some printers hold the line after power-up until flow is released
	if _, err := p.Write([]byte{0x11}); err != nil {
		port.Close()
		return nil, fmt.Errorf("serial port %s: %w", portName, err)
	}
	return p, nil
}

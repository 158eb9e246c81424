package printer

import "fmt"

// QRLevel is the QR error correction level.
type QRLevel byte

const (
	QRLevelL QRLevel = 48
	QRLevelM QRLevel = 49
	QRLevelQ QRLevel = 50
	QRLevelH QRLevel = 51
)

const qrMaxData = 7089

// QR prints data as a model 2 QR code with the printer's native symbol
// generator (GS ( k). size is the module size in dots, 1..16.
func (p *Printer) QR(data string, size int, level QRLevel) error {
	if len(data) == 0 || len(data) > qrMaxData {
		return fmt.Errorf("%w: data length %d out of 1..%d", ErrInvalidQR, len(data), qrMaxData)
	}
	if size < 1 || size > 16 {
		return fmt.Errorf("%w: module size %d out of 1..16", ErrInvalidQR, size)
	}
	if level < QRLevelL || level > QRLevelH {
		return fmt.Errorf("%w: error correction level %d", ErrInvalidQR, level)
	}

	store := len(data) + 3
	cmds := [][]byte{
		{0x1d, 0x28, 0x6b, 0x04, 0x00, 0x31, 0x41, 0x32, 0x00}, // fn 165: model 2
		{0x1d, 0x28, 0x6b, 0x03, 0x00, 0x31, 0x43, byte(size)}, // fn 167: module size
		{0x1d, 0x28, 0x6b, 0x03, 0x00, 0x31, 0x45, byte(level)}, // fn 169: error correction
		append([]byte{0x1d, 0x28, 0x6b, byte(store), byte(store >> 8), 0x31, 0x50, 0x30}, data...), // fn 180: store
		{0x1d, 0x28, 0x6b, 0x03, 0x00, 0x31, 0x51, 0x30}, // fn 181: print
	}
	for _, c := range cmds {
		if err := p.send(c); err != nil {
			return err
		}
	}
	return nil
}

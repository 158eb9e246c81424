package printer

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// CodePage is a character code table the printer selects with ESC t n.
type CodePage byte

const (
	CP437   CodePage = 0
	CP850   CodePage = 2
	CP860   CodePage = 3
	CP863   CodePage = 4
	CP865   CodePage = 5
	CP1252  CodePage = 16
	CP866   CodePage = 17
	CP852   CodePage = 18
	CP858   CodePage = 19
	ISO8859 CodePage = 40 // ISO 8859-15
)

var codePages = map[CodePage]*charmap.Charmap{
	CP437:   charmap.CodePage437,
	CP850:   charmap.CodePage850,
	CP860:   charmap.CodePage860,
	CP863:   charmap.CodePage863,
	CP865:   charmap.CodePage865,
	CP1252:  charmap.Windows1252,
	CP866:   charmap.CodePage866,
	CP852:   charmap.CodePage852,
	CP858:   charmap.CodePage858,
	ISO8859: charmap.ISO8859_15,
}

func (c CodePage) encoding() encoding.Encoding {
	if cm, ok := codePages[c]; ok {
		return cm
	}
	return charmap.CodePage437
}

// SetCodePage selects the printer character table and the matching encoder
// used by Text.
func (p *Printer) SetCodePage(c CodePage) error {
	if _, ok := codePages[c]; !ok {
		return fmt.Errorf("%w: code page %d", ErrUnsupported, c)
	}
	if err := p.send([]byte{0x1b, 't', byte(c)}); err != nil {
		return err
	}
	p.codePage = c
	p.encoder = c.encoding().NewEncoder()
	return nil
}

// Text prints s encoded in the current code page. Runes the code page cannot
// represent are replaced with its substitute byte (0x1A).
func (p *Printer) Text(s string) error {
	enc := encoding.ReplaceUnsupported(p.encoder)
	b, err := enc.Bytes([]byte(s))
	if err != nil {
		return fmt.Errorf("encode text: %w", err)
	}
	return p.send(b)
}

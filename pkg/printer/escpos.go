package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ESC/POS control bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Alignment is a justification mode for following lines
type Alignment byte

const (
	AlignLeft   Alignment = 0
	AlignCenter Alignment = 1
	AlignRight  Alignment = 2
)

// Character sizes for SetFontSize
const (
	FontNormal = 0x00
	FontDouble = 0x11
	FontWide   = 0x10
	FontTall   = 0x01
)

// codePageWPC1252 selects Windows-1252 on Epson-compatible printers
const codePageWPC1252 = 16

// Paper widths in characters of font A
const (
	Width58mm = 32
	Width80mm = 48
)

// Document builds an ESC/POS job. Text is measured in runes and sent as Windows-1252,
// so accented Spanish text keeps its columns.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument starts a job for a paper of charWidth columns.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = Width58mm
	}
	d := &Document{width: charWidth}
	d.buf.Write([]byte{ESC, '@'})
	d.buf.Write([]byte{ESC, 't', codePageWPC1252})
	return d
}

// Width is the number of columns of a line
func (d *Document) Width() int {
	return d.width
}

func (d *Document) write(s string) {
	enc, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil {
		enc = asciiFallback(s)
	}
	d.buf.WriteString(enc)
}

func asciiFallback(s string) string {
	var b strings.Builder
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteRune(r)
		} else {
			b.WriteByte('?')
		}
	}
	out, _ := charmap.Windows1252.NewEncoder().String(b.String())
	return out
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// SetAlign sets the alignment of the following lines.
func (d *Document) SetAlign(a Alignment) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(a)})
	return d
}

// SetBold toggles emphasized mode.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// SetFontSize sets the character size.
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes s with word wrapping at the paper width.
func (d *Document) Text(s string) *Document {
	for _, line := range wrap(s, d.width) {
		d.write(line)
		d.buf.WriteByte(LF)
	}
	return d
}

// TextF is Text with formatting.
func (d *Document) TextF(format string, args ...any) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Separator fills a line with char.
func (d *Document) Separator(char rune) *Document {
	d.write(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// Columns prints left and right on one line, truncating left when they do not fit.
func (d *Document) Columns(left, right string) *Document {
	room := d.width - utf8.RuneCountInString(right) - 1
	left = truncate(left, room)
	spaces := d.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if spaces < 1 {
		spaces = 1
	}
	d.write(left + strings.Repeat(" ", spaces) + right)
	d.buf.WriteByte(LF)
	return d
}

// PartialCut feeds and cuts leaving a hinge.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the job.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "."
}

func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	cur := ""
	for _, w := range words {
		for utf8.RuneCountInString(w) > width {
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			r := []rune(w)
			lines = append(lines, string(r[:width]))
			w = string(r[width:])
		}
		switch {
		case cur == "":
			cur = w
		case utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(w) <= width:
			cur += " " + w
		default:
			lines = append(lines, cur)
			cur = w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

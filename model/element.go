package model

import "strings"

// FontDescriptor describes the typography of a fragment or block
type FontDescriptor struct {
	Family string
	Size   float64
	Bold   bool
	Italic bool
}

// ParseFontName builds a descriptor from a PDF base font name such as
// "ABCDEF+Helvetica-BoldOblique" or "Arial,Bold".
func ParseFontName(name string, size float64) FontDescriptor {
	name = strings.TrimSpace(name)
	if isSubsetName(name) {
		name = name[7:]
	}

	lower := strings.ToLower(name)
	fd := FontDescriptor{
		Family: name,
		Size:   size,
		Bold: strings.Contains(lower, "bold") ||
			strings.Contains(lower, "black") ||
			strings.Contains(lower, "heavy") ||
			strings.Contains(lower, "semibold") ||
			strings.Contains(lower, "demibold"),
		Italic: strings.Contains(lower, "italic") ||
			strings.Contains(lower, "oblique"),
	}
	if i := strings.IndexAny(name, "-,"); i > 0 {
		fd.Family = name[:i]
	}
	return fd
}

// isSubsetName checks for the "ABCDEF+" prefix of a subset font
func isSubsetName(name string) bool {
	if len(name) < 8 {
		return false
	}
	for i := 0; i < 6; i++ {
		if name[i] < 'A' || name[i] > 'Z' {
			return false
		}
	}
	return name[6] == '+'
}

// SameStyle reports whether both descriptors carry the same attributes
func (f FontDescriptor) SameStyle(other FontDescriptor) bool {
	return f.Bold == other.Bold && f.Italic == other.Italic
}

// Fragment is the smallest positioned text unit of a page. Index is the
// fragment's position in its page stream and is the key other entities use
// to refer back to it.
type Fragment struct {
	Index    int
	Text     string
	BBox     BBox
	Font     FontDescriptor
	Baseline float64
}

// TextBlock is a run of fragments merged into a word or phrase
type TextBlock struct {
	BBox      BBox
	Text      string
	Font      FontDescriptor
	Fragments []int // indices into Page.Fragments
	LineCount int
}

// NewTextBlock creates a single-fragment block
func NewTextBlock(f Fragment) TextBlock {
	return TextBlock{
		BBox:      f.BBox,
		Text:      f.Text,
		Font:      f.Font,
		Fragments: []int{f.Index},
		LineCount: 1,
	}
}

// LineHeight returns the height of a single text line of the block
func (b TextBlock) LineHeight() float64 {
	if b.LineCount <= 1 {
		return b.BBox.Height
	}
	return b.BBox.Height / float64(b.LineCount)
}

// Merge joins other onto b with sep between the texts. The font of the
// longer text wins.
func (b TextBlock) Merge(other TextBlock, sep string, lines bool) TextBlock {
	font := b.Font
	if len([]rune(other.Text)) > len([]rune(b.Text)) {
		font = other.Font
	}
	frags := make([]int, 0, len(b.Fragments)+len(other.Fragments))
	frags = append(frags, b.Fragments...)
	frags = append(frags, other.Fragments...)

	lc := b.LineCount
	if lines {
		lc += other.LineCount
	}
	return TextBlock{
		BBox:      b.BBox.Union(other.BBox),
		Text:      b.Text + sep + other.Text,
		Font:      font,
		Fragments: frags,
		LineCount: lc,
	}
}

// TextLine is a row band of blocks ordered by their left edge
type TextLine struct {
	BBox   BBox
	Blocks []TextBlock
}

// NewTextLine creates a line whose box is the union of its blocks
func NewTextLine(blocks []TextBlock) TextLine {
	l := TextLine{Blocks: blocks}
	for i, b := range blocks {
		if i == 0 {
			l.BBox = b.BBox
			continue
		}
		l.BBox = l.BBox.Union(b.BBox)
	}
	return l
}

// Text joins the line's blocks with a single space
func (l TextLine) Text() string {
	parts := make([]string, len(l.Blocks))
	for i, b := range l.Blocks {
		parts[i] = b.Text
	}
	return strings.Join(parts, " ")
}

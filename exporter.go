package tajreba

import "io"

// Alignment represents paragraph alignment in the exported document.
type Alignment string

// Paragraph alignments.
const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// ExportOptions controls formatting of the exported document.
type ExportOptions struct {
	Title     string
	Direction Direction
	Alignment Alignment
	FontName  string
	FontSize  int // points
}

// DefaultExportOptions returns export options for the given text direction:
// right-aligned RTL paragraphs for RTL output, left-aligned otherwise,
// Calibri 11pt.
func DefaultExportOptions(dir Direction) ExportOptions {
	opts := ExportOptions{
		Direction: dir,
		Alignment: AlignLeft,
		FontName:  "Calibri",
		FontSize:  11,
	}
	if dir == DirectionRTL {
		opts.Alignment = AlignRight
	}
	return opts
}

// Exporter writes translated text as a formatted document.
type Exporter interface {
	// Export writes text to w. Paragraphs are delimited by newlines;
	// blank lines are skipped.
	Export(w io.Writer, text string, opts ExportOptions) error
}

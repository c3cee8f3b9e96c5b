package tajreba

// ExtractResult holds text extracted from a source document.
type ExtractResult struct {
	// Title is the document title from metadata, if any.
	Title string

	// Text is the extracted plain text (markdown for HTML sources),
	// with paragraphs separated by blank lines.
	Text string
}

// Extractor extracts translatable text from a document file.
type Extractor interface {
	// Extract reads the file at path and returns its text content.
	// Returns EINVALID if the file is not a valid document of the
	// extractor's format.
	Extract(path string) (*ExtractResult, error)
}

// ExtractorRegistry maps document formats to extractors. Register all
// extractors during startup; Get may then be called concurrently.
type ExtractorRegistry struct {
	extractors map[Format]Extractor
}

// NewExtractorRegistry creates an empty registry.
func NewExtractorRegistry() *ExtractorRegistry {
	return &ExtractorRegistry{extractors: make(map[Format]Extractor)}
}

// Register adds an extractor for a format.
func (r *ExtractorRegistry) Register(format Format, e Extractor) {
	r.extractors[format] = e
}

// Get returns the extractor for a format, or nil if none is registered.
func (r *ExtractorRegistry) Get(format Format) Extractor {
	return r.extractors[format]
}

// Formats returns all registered formats.
func (r *ExtractorRegistry) Formats() []Format {
	formats := make([]Format, 0, len(r.extractors))
	for f := range r.extractors {
		formats = append(formats, f)
	}
	return formats
}

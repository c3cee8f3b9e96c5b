package tajreba

// Converter converts HTML to Markdown. HTML and URL sources are converted
// to markdown before chunking so the model sees structure (headings, lists)
// instead of markup noise.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	Convert(html string) (string, error)
}

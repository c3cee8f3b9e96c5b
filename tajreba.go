// Package tajreba provides a local document translation tool. It extracts
// text from DOCX, PDF, EPUB, HTML, and plain-text files (or web pages),
// splits it into model-sized chunks, translates the chunks through a locally
// hosted LLM, and exports the result as a DOCX file.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, ollama/, docx/).
package tajreba

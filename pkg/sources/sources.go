// Package sources provides configuration and validation for source
// documents.
//
// This package defines the schema for sources.yaml, which users
// provide to describe the digitized documents whose transcription
// files the engine imports: which table of which compilation a file
// holds, how it is delimited, and where its scanned images live.
package sources

type Sources interface {
	Load() (*SourcesConfig, error)
}

// SourcesConfig represents the complete sources.yaml configuration
// file.
type SourcesConfig struct {
	// Documents is the list of source documents to import.
	Documents []Document `yaml:"documents"`

	// Warnings holds non-fatal validation warnings (not serialized)
	Warnings []ValidationWarning `yaml:"-"`
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	DocumentID string // ID of the document
	Field      string // Field name that has the issue
	Message    string // Description of the issue
	Suggestion string // How to fix it
}

// Document represents configuration for a single source document
// table. Reference codes are scoped to the document: the same code in
// two documents names two different citations.
type Document struct {
	// ID identifies the document, e.g. "buxton1988". Required.
	// Reference identity in the database is (document_id, code).
	ID string `yaml:"id"`

	// TableNo is the table number within the document. Required and
	// unique across the registry.
	TableNo int `yaml:"table_no"`

	// Title is the full document title.
	Title string `yaml:"title,omitempty"`

	// Category is the human-readable table category,
	// e.g. "OH radical reactions".
	Category string `yaml:"category,omitempty"`

	// Path is the transcription file for this table, absolute or
	// relative to the data directory. Required.
	Path string `yaml:"path"`

	// Delimiter is "tab" or "comma". Empty means the engine default.
	Delimiter string `yaml:"delimiter,omitempty"`

	// ImageDir holds the scanned table crops for this document.
	ImageDir string `yaml:"image_dir,omitempty"`

	// ReferencesPath is the bibliography transcription for this
	// document, when one exists.
	ReferencesPath string `yaml:"references_path,omitempty"`

	// Numbered is true when the document prints per-reaction numbers.
	// Unnumbered tables fall back to canonical-key identity on
	// re-import.
	Numbered bool `yaml:"numbered,omitempty"`
}

// ByTableNo returns the document registered for a table number.
func (c *SourcesConfig) ByTableNo(tableNo int) (Document, bool) {
	for _, d := range c.Documents {
		if d.TableNo == tableNo {
			return d, true
		}
	}
	return Document{}, false
}

// Filter returns the documents matching the requested table numbers,
// or all documents when the list is empty.
func (c *SourcesConfig) Filter(tableNos []int) []Document {
	if len(tableNos) == 0 {
		return c.Documents
	}
	var res []Document
	for _, no := range tableNos {
		if d, ok := c.ByTableNo(no); ok {
			res = append(res, d)
		}
	}
	return res
}

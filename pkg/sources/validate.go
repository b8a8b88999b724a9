package sources

import (
	"fmt"
)

// Validate checks the configuration for errors and collects warnings.
func (c *SourcesConfig) Validate() error {
	if len(c.Documents) == 0 {
		return fmt.Errorf("no documents specified in configuration")
	}

	ids := make(map[string]bool)
	tables := make(map[int]string)

	for i := range c.Documents {
		d := &c.Documents[i]
		warnings, err := d.Validate(i + 1)
		if err != nil {
			return fmt.Errorf("document %d: %w", i+1, err)
		}
		c.Warnings = append(c.Warnings, warnings...)

		key := fmt.Sprintf("%s/%d", d.ID, d.TableNo)
		if ids[key] {
			return fmt.Errorf("document %d: duplicate id and table_no %q", i+1, key)
		}
		ids[key] = true

		if prev, ok := tables[d.TableNo]; ok {
			return fmt.Errorf(
				"document %d: table_no %d already used by %q",
				i+1, d.TableNo, prev,
			)
		}
		tables[d.TableNo] = d.ID
	}

	return nil
}

// Validate checks a single document configuration. File system
// validation (file existence) is deferred to the I/O layer.
// Returns warnings for non-fatal issues and an error for fatal ones.
func (d *Document) Validate(index int) ([]ValidationWarning, error) {
	var warnings []ValidationWarning

	if d.ID == "" {
		return nil, fmt.Errorf("id is required")
	}
	if d.TableNo <= 0 {
		return nil, fmt.Errorf("table_no must be a positive integer")
	}
	if d.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	switch d.Delimiter {
	case "", "tab", "comma":
	default:
		return nil, fmt.Errorf(
			"invalid delimiter %q: must be 'tab' or 'comma'", d.Delimiter,
		)
	}

	if d.Category == "" {
		warnings = append(warnings, ValidationWarning{
			DocumentID: d.ID,
			Field:      "category",
			Message:    "category is empty",
			Suggestion: "Set 'category' so search results show the table context",
		})
	}

	return warnings, nil
}

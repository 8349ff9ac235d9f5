package curriculum

import "fmt"

// ValidateImportSchema checks the import schema for errors before any
// write happens. Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	if len(schema.Sections) == 0 {
		errs = append(errs, fmt.Errorf("at least one section is required"))
	}

	sectionNames := make(map[string]bool)
	for i, sec := range schema.Sections {
		if sec.Name == "" {
			errs = append(errs, fmt.Errorf("sections[%d].name is required", i))
			continue
		}
		if sectionNames[sec.Name] {
			errs = append(errs, fmt.Errorf("duplicate section name %q", sec.Name))
		}
		sectionNames[sec.Name] = true
		errs = append(errs, validateChapters(sec)...)
	}
	return errs
}

func validateChapters(sec SectionImport) []error {
	var errs []error
	ids := make(map[string]bool)
	for _, ch := range sec.Chapters {
		if ch.ID == "" || ch.Name == "" {
			errs = append(errs, fmt.Errorf("section %q: chapter id and name are required", sec.Name))
			continue
		}
		if ids[ch.ID] {
			errs = append(errs, fmt.Errorf("section %q: duplicate id %q", sec.Name, ch.ID))
		}
		ids[ch.ID] = true

		for _, t := range ch.Topics {
			if t.ID == "" || t.Name == "" {
				errs = append(errs, fmt.Errorf("section %q chapter %q: topic id and name are required", sec.Name, ch.ID))
				continue
			}
			if ids[t.ID] {
				errs = append(errs, fmt.Errorf("section %q: duplicate id %q", sec.Name, t.ID))
			}
			ids[t.ID] = true

			for _, st := range t.Subtopics {
				if st.ID == "" || st.Name == "" {
					errs = append(errs, fmt.Errorf("section %q topic %q: subtopic id and name are required", sec.Name, t.ID))
					continue
				}
				if ids[st.ID] {
					errs = append(errs, fmt.Errorf("section %q: duplicate id %q", sec.Name, st.ID))
				}
				ids[st.ID] = true
			}
		}
	}
	return errs
}

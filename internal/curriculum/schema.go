package curriculum

import (
	"encoding/json"
	"fmt"
	"os"
)

// ImportSchema is the top-level JSON structure for a curriculum import.
type ImportSchema struct {
	Sections []SectionImport `json:"sections"`
}

// SectionImport is one curriculum section with its chapters.
type SectionImport struct {
	Name     string          `json:"name"`
	Chapters []ChapterImport `json:"chapters"`
}

// ChapterImport defines a chapter in the import file.
type ChapterImport struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Order        int           `json:"order"`
	Category     string        `json:"category,omitempty"`
	Foundational bool          `json:"foundational,omitempty"`
	Topics       []TopicImport `json:"topics"`
}

// TopicImport defines a topic in the import file.
type TopicImport struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Order        int              `json:"order"`
	Category     string           `json:"category,omitempty"`
	Foundational bool             `json:"foundational,omitempty"`
	EstimatedMin int              `json:"estimated_min,omitempty"`
	Subtopics    []SubtopicImport `json:"subtopics"`
}

// SubtopicImport defines a subtopic in the import file.
type SubtopicImport struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// LoadImportFile reads and decodes a curriculum import file.
func LoadImportFile(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}

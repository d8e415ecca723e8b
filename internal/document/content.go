package document

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/goliatone/go-scribe/internal/domain"
	"github.com/goliatone/go-scribe/internal/validation"
)

// ErrInvalidContent reports break content that is not a JSON paragraph list.
var ErrInvalidContent = errors.New("document: invalid break content")

const paragraphSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["type", "children"],
    "properties": {
      "type": {"const": "paragraph"},
      "indent": {"type": "integer", "minimum": 0},
      "children": {
        "type": "array",
        "minItems": 1,
        "items": {
          "type": "object",
          "required": ["text"],
          "properties": {
            "text": {"type": "string"},
            "bold": {"type": "boolean"},
            "italic": {"type": "boolean"}
          }
        }
      }
    }
  }
}`

var contentSchema = validation.MustCompileSchema("scribe-paragraphs.json", []byte(paragraphSchema))

// EmptyContent is the serialised form of a single empty paragraph.
var EmptyContent = EncodeContent([]domain.Paragraph{domain.EmptyParagraph()})

// EncodeContent serialises paragraphs into break content.
func EncodeContent(paragraphs []domain.Paragraph) string {
	if len(paragraphs) == 0 {
		paragraphs = []domain.Paragraph{domain.EmptyParagraph()}
	}
	encoded, err := json.Marshal(paragraphs)
	if err != nil {
		// paragraphs only hold strings, ints and bools
		panic(err)
	}
	return string(encoded)
}

// ValidateContent checks content against the paragraph schema.
func ValidateContent(content string) error {
	if err := contentSchema.ValidateJSON([]byte(content)); err != nil {
		return errors.Join(ErrInvalidContent, err)
	}
	return nil
}

// DecodeContent parses break content into paragraphs.
func DecodeContent(content string) ([]domain.Paragraph, error) {
	if err := ValidateContent(content); err != nil {
		return nil, err
	}
	var paragraphs []domain.Paragraph
	if err := json.Unmarshal([]byte(content), &paragraphs); err != nil {
		return nil, errors.Join(ErrInvalidContent, err)
	}
	return paragraphs, nil
}

// SanitizeContent returns content unchanged when it is valid and EmptyContent
// otherwise, together with the decoded paragraphs.
func SanitizeContent(content string) (string, []domain.Paragraph, bool) {
	paragraphs, err := DecodeContent(content)
	if err != nil {
		return EmptyContent, []domain.Paragraph{domain.EmptyParagraph()}, true
	}
	return content, paragraphs, false
}

// PlainText flattens paragraphs, separating them with blank lines.
func PlainText(paragraphs []domain.Paragraph) string {
	parts := make([]string, 0, len(paragraphs))
	for _, paragraph := range paragraphs {
		parts = append(parts, paragraph.Text())
	}
	return strings.Join(parts, "\n\n")
}

// WordCount counts whitespace separated tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ContentWordCount counts the words of serialised break content. Invalid
// content counts as empty.
func ContentWordCount(content string) int {
	paragraphs, err := DecodeContent(content)
	if err != nil {
		return 0
	}
	return WordCount(PlainText(paragraphs))
}

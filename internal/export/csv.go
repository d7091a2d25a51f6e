// Package export flattens questionnaire responses into the CSV shape the
// portal serves for download.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/halewood/onboarding-api/internal/models"
)

// Row is one flattened (section, field, value) triple.
type Row struct {
	Section string
	Field   string
	Value   string
}

// Flatten expands response rows into one Row per stored field. Field order
// within a section is sorted so exports are deterministic.
func Flatten(responses []models.QuestionnaireResponse) []Row {
	rows := make([]Row, 0)
	for _, response := range responses {
		keys := make([]string, 0, len(response.Responses))
		for key := range response.Responses {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			value := response.Responses[key]
			rows = append(rows, Row{
				Section: response.SectionKey,
				Field:   key,
				Value:   stringify(value),
			})
		}
	}
	return rows
}

// CSV renders rows with the fixed header. Every cell is double-quoted and
// internal quotes are doubled; the standard csv writer only quotes when it
// must, which would break the published format.
func CSV(rows []Row) string {
	var sb strings.Builder
	sb.WriteString("section,field,value")
	for _, row := range rows {
		sb.WriteByte('\n')
		sb.WriteString(quote(row.Section))
		sb.WriteByte(',')
		sb.WriteString(quote(row.Field))
		sb.WriteByte(',')
		sb.WriteString(quote(row.Value))
	}
	return sb.String()
}

func quote(cell string) string {
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

func stringify(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, "; ")
	case float64:
		// JSON numbers decode as float64; render integers without the decimal.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/rgehrsitz/taxhelper/internal/storage"
)

// ErrInvalidFormat means the file parsed but is not a tax document
var ErrInvalidFormat = errors.New("invalid data format")

var requiredSections = []string{"userSettings", "income", "generalExpenses", "wfh"}

// ImportJSON parses an exported document. Files missing a top-level section
// are rejected; within the sections, values are coerced the same way saved
// documents are.
func ImportJSON(data []byte, fy domain.FinancialYear) (domain.Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return domain.Document{}, fmt.Errorf("file is not valid JSON: %w", err)
	}

	var missing []string
	for _, key := range requiredSections {
		if raw, ok := top[key]; !ok || string(raw) == "null" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return domain.Document{}, fmt.Errorf("%w: missing %s", ErrInvalidFormat, strings.Join(missing, ", "))
	}

	doc, err := storage.Decode(data, fy)
	if err != nil {
		return domain.Document{}, err
	}
	if doc.UserSettings.FinancialYear != fy.Label() {
		return domain.Document{}, fmt.Errorf("%w: file is for %s, not %s", ErrInvalidFormat, doc.UserSettings.FinancialYear, fy)
	}
	return doc, nil
}

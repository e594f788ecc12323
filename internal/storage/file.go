package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/rgehrsitz/taxhelper/internal/logging"
)

const filePrefix = "taxhelper-"

// FileStore keeps one JSON document per financial year in a directory
type FileStore struct {
	basePath string
}

// NewFileStore creates the directory if needed
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, NewError("NewFileStore", "", err, false)
	}
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, NewError("NewFileStore", "", err, false)
	}
	return &FileStore{basePath: absPath}, nil
}

// DefaultDir is the per-user data directory
func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "taxhelper")
	}
	return ".taxhelper"
}

// Path returns the file a financial year is stored in
func (s *FileStore) Path(fy string) string {
	return filepath.Join(s.basePath, filePrefix+fy+".json")
}

// Load returns the saved document for a financial year, or a fresh default
// document when nothing has been saved yet. Older layouts are upgraded and
// missing sections filled in.
func (s *FileStore) Load(fy string) (domain.Document, error) {
	year, err := domain.ParseFinancialYear(fy)
	if err != nil {
		return domain.Document{}, NewError("Load", fy, ErrInvalidKey, false)
	}

	data, err := os.ReadFile(s.Path(year.Label()))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DefaultDocument(year), nil
		}
		return domain.Document{}, NewError("Load", fy, err, true)
	}

	doc, err := Decode(data, year)
	if err != nil {
		return domain.Document{}, NewError("Load", fy, err, false)
	}
	return doc, nil
}

// Save writes the document atomically by writing a temp file and renaming it
func (s *FileStore) Save(fy string, doc domain.Document) error {
	year, err := domain.ParseFinancialYear(fy)
	if err != nil {
		return NewError("Save", fy, ErrInvalidKey, false)
	}
	doc.UserSettings.FinancialYear = year.Label()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return NewError("Save", fy, err, false)
	}

	path := s.Path(year.Label())
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return NewError("Save", fy, err, true)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return NewError("Save", fy, err, true)
	}

	logging.Log.Debug().Str("fy", year.Label()).Str("path", path).Msg("document saved")
	return nil
}

// Clear deletes the saved document for a financial year
func (s *FileStore) Clear(fy string) error {
	year, err := domain.ParseFinancialYear(fy)
	if err != nil {
		return NewError("Clear", fy, ErrInvalidKey, false)
	}
	if err := os.Remove(s.Path(year.Label())); err != nil {
		if os.IsNotExist(err) {
			return NewError("Clear", fy, ErrNotFound, false)
		}
		return NewError("Clear", fy, err, true)
	}
	return nil
}

// Exists reports whether a document has been saved for a financial year
func (s *FileStore) Exists(fy string) (bool, error) {
	year, err := domain.ParseFinancialYear(fy)
	if err != nil {
		return false, NewError("Exists", fy, ErrInvalidKey, false)
	}
	if _, err := os.Stat(s.Path(year.Label())); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, NewError("Exists", fy, err, true)
	}
	return true, nil
}

// Years lists the financial years with saved documents, oldest first
func (s *FileStore) Years() ([]string, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, NewError("Years", "", err, true)
	}
	var years []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		label := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), ".json")
		if _, err := domain.ParseFinancialYear(label); err == nil {
			years = append(years, label)
		}
	}
	sort.Strings(years)
	return years, nil
}

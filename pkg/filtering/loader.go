package filtering

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store keeps catalogs parsed from catalog documents, keyed by id. It is safe
// for concurrent readers once constructed.
type Store struct {
	catalogs map[string]*Catalog
}

// Catalog returns the catalog registered under id.
func (s *Store) Catalog(id string) (*Catalog, bool) {
	if s == nil {
		return nil, false
	}
	catalog, ok := s.catalogs[id]
	return catalog, ok
}

// Empty reports whether the store holds any catalogs.
func (s *Store) Empty() bool {
	return s == nil || len(s.catalogs) == 0
}

// IDs returns the registered catalog ids.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.catalogs))
	for id := range s.catalogs {
		out = append(out, id)
	}
	return out
}

type catalogDocument struct {
	ID    string     `json:"id" yaml:"id"`
	Slots []slotFile `json:"slots" yaml:"slots"`
}

type slotFile struct {
	Name     string `json:"name" yaml:"name"`
	Column   string `json:"column" yaml:"column"`
	Operator string `json:"operator" yaml:"operator"`
}

// LoadFS walks fsys and parses every JSON/YAML catalog document. Products
// that define their own slot catalogs ship them as documents next to their
// view code. Duplicate catalog ids across documents are errors.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{catalogs: make(map[string]*Catalog)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("filtering: read %s: %w", path, err)
		}

		catalog, err := parseCatalogDocument(data, path)
		if err != nil {
			return err
		}
		if _, exists := store.catalogs[catalog.ID()]; exists {
			return fmt.Errorf("filtering: duplicate catalog %q (file %s)", catalog.ID(), path)
		}
		store.catalogs[catalog.ID()] = catalog
		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

func parseCatalogDocument(data []byte, source string) (*Catalog, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("filtering: file %s is empty", source)
	}

	doc, err := parseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("filtering: parse %s: %w", source, err)
	}

	id := strings.TrimSpace(doc.ID)
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}

	slots := make([]Spec, 0, len(doc.Slots))
	for idx, slot := range doc.Slots {
		name := strings.TrimSpace(slot.Name)
		if name == "" {
			return nil, fmt.Errorf("filtering: file %s slot %d has an empty name", source, idx)
		}
		op := Operator(strings.TrimSpace(slot.Operator))
		if op == "" {
			op = OperatorEquals
		}
		if !KnownOperator(op) {
			return nil, fmt.Errorf("filtering: file %s slot %q uses unknown operator %q", source, name, slot.Operator)
		}
		slots = append(slots, Spec{
			Name:     name,
			Column:   strings.TrimSpace(slot.Column),
			Operator: op,
		})
	}

	catalog, err := NewCatalog(id, slots...)
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, source)
	}
	return catalog, nil
}

func parseDocument(data []byte) (catalogDocument, error) {
	var doc catalogDocument
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return catalogDocument{}, fmt.Errorf("invalid JSON or YAML")
}

func isCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Package jsonfile reads and writes vocabulary collections as JSON
// files in the vendor export format (brand_id/brand_name and friends).
// It backs the seed importer and serves as a file-based Storage for
// development setups.
package jsonfile

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"os"
	"path/filepath"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
)

// vendorFields describes the per-type file name and field spelling in
// the vendor export format.
type vendorFields struct {
	file string
	id   string
	name string
}

var vendorFormat = map[domain.PicklistType]vendorFields{
	domain.PicklistTypeBrand:     {file: "brands.json", id: "brand_id", name: "brand_name"},
	domain.PicklistTypeCategory:  {file: "categories.json", id: "category_id", name: "category_name"},
	domain.PicklistTypeStyle:     {file: "styles.json", id: "style_id", name: "style_name"},
	domain.PicklistTypeAttribute: {file: "attributes.json", id: "attribute_id", name: "attribute_name"},
}

// vendorRecord is the superset of fields across all four export files.
type vendorRecord struct {
	BrandID       string `json:"brand_id,omitempty"`
	BrandName     string `json:"brand_name,omitempty"`
	CategoryID    string `json:"category_id,omitempty"`
	CategoryName  string `json:"category_name,omitempty"`
	Department    string `json:"department,omitempty"`
	Family        string `json:"family,omitempty"`
	StyleID       string `json:"style_id,omitempty"`
	StyleName     string `json:"style_name,omitempty"`
	AttributeID   string `json:"attribute_id,omitempty"`
	AttributeName string `json:"attribute_name,omitempty"`
}

func (r vendorRecord) toEntry(picklistType domain.PicklistType) domain.PicklistEntry {
	switch picklistType {
	case domain.PicklistTypeBrand:
		return domain.PicklistEntry{ID: r.BrandID, Name: r.BrandName}
	case domain.PicklistTypeCategory:
		return domain.PicklistEntry{ID: r.CategoryID, Name: r.CategoryName, Department: r.Department, Family: r.Family}
	case domain.PicklistTypeStyle:
		return domain.PicklistEntry{ID: r.StyleID, Name: r.StyleName}
	case domain.PicklistTypeAttribute:
		return domain.PicklistEntry{ID: r.AttributeID, Name: r.AttributeName}
	default:
		return domain.PicklistEntry{}
	}
}

func fromEntry(picklistType domain.PicklistType, e domain.PicklistEntry) vendorRecord {
	switch picklistType {
	case domain.PicklistTypeBrand:
		return vendorRecord{BrandID: e.ID, BrandName: e.Name}
	case domain.PicklistTypeCategory:
		return vendorRecord{CategoryID: e.ID, CategoryName: e.Name, Department: e.Department, Family: e.Family}
	case domain.PicklistTypeStyle:
		return vendorRecord{StyleID: e.ID, StyleName: e.Name}
	case domain.PicklistTypeAttribute:
		return vendorRecord{AttributeID: e.ID, AttributeName: e.Name}
	default:
		return vendorRecord{}
	}
}

// Source reads and writes vendor-format picklist files in one directory.
type Source struct {
	dir string
}

// New creates a Source rooted at dir.
func New(dir string) *Source {
	return &Source{dir: dir}
}

// Dir returns the directory this source reads from.
func (s *Source) Dir() string {
	return s.dir
}

// Load reads one collection. A missing file yields an empty collection,
// not an error, since vendors ship only the types they own.
func (s *Source) Load(ctx context.Context, picklistType domain.PicklistType) ([]domain.PicklistEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fields, ok := vendorFormat[picklistType]
	if !ok {
		return nil, fmt.Errorf("unknown picklist type %q", picklistType)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, fields.file))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fields.file, err)
	}

	var records []vendorRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", fields.file, err)
	}

	entries := make([]domain.PicklistEntry, 0, len(records))
	for _, r := range records {
		entry := r.toEntry(picklistType)
		if entry.ID == "" && entry.Name == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// LoadAll reads every collection present in the directory.
func (s *Source) LoadAll(ctx context.Context) (map[domain.PicklistType][]domain.PicklistEntry, error) {
	out := make(map[domain.PicklistType][]domain.PicklistEntry, len(domain.AllPicklistTypes))
	for _, t := range domain.AllPicklistTypes {
		entries, err := s.Load(ctx, t)
		if err != nil {
			return nil, err
		}
		if entries != nil {
			out[t] = entries
		}
	}
	return out, nil
}

// Save writes one collection back in vendor format. The file is written
// to a temp name and renamed so readers never see a torn file.
func (s *Source) Save(ctx context.Context, picklistType domain.PicklistType, entries []domain.PicklistEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fields, ok := vendorFormat[picklistType]
	if !ok {
		return fmt.Errorf("unknown picklist type %q", picklistType)
	}

	records := make([]vendorRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, fromEntry(picklistType, e))
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", fields.file, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create seed directory: %w", err)
	}

	target := filepath.Join(s.dir, fields.file)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fields.file, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("rename %s: %w", fields.file, err)
	}
	return nil
}

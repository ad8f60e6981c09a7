package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrInvalidCatalog is returned when a catalog record fails validation
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrDuplicateKey is returned when two catalog records share a natural key
	ErrDuplicateKey = errors.New("duplicate natural key in catalog")
	// ErrMissingParent is returned when a category references a parent that is
	// not declared before it in the catalog or is absent from the store
	ErrMissingParent = errors.New("parent category not found")
)

var validate = validator.New()

// Catalog is the fixed set of reference rows the seeder guarantees to exist.
// A Catalog is immutable once built; accessors return copies.
type Catalog struct {
	regions    []RegionRecord
	categories []CategoryRecord
}

// New builds a catalog from ordered region and category records.
// Text fields are trimmed and NFC-normalised, region codes are upper-cased.
// Categories must be declared after their parent.
func New(regions []RegionRecord, categories []CategoryRecord) (Catalog, error) {
	c := Catalog{
		regions:    make([]RegionRecord, 0, len(regions)),
		categories: make([]CategoryRecord, 0, len(categories)),
	}

	regionCodes := make(map[string]struct{}, len(regions))
	regionNames := make(map[string]struct{}, len(regions))
	for i, r := range regions {
		r = RegionRecord{
			Code: strings.ToUpper(normalize(r.Code)),
			Name: normalize(r.Name),
		}
		if err := validate.Struct(r); err != nil {
			return Catalog{}, fmt.Errorf("%w: region[%d] %q: %v", ErrInvalidCatalog, i, r.Code, err)
		}
		if _, ok := regionCodes[r.Code]; ok {
			return Catalog{}, fmt.Errorf("%w: region code %q", ErrDuplicateKey, r.Code)
		}
		if _, ok := regionNames[r.Name]; ok {
			return Catalog{}, fmt.Errorf("%w: region name %q", ErrDuplicateKey, r.Name)
		}
		regionCodes[r.Code] = struct{}{}
		regionNames[r.Name] = struct{}{}
		c.regions = append(c.regions, r)
	}

	declared := make(map[string]struct{}, len(categories))
	for i, cat := range categories {
		cat = CategoryRecord{
			Name:        normalize(cat.Name),
			Description: normalize(cat.Description),
			Parent:      normalize(cat.Parent),
		}
		if err := validate.Struct(cat); err != nil {
			return Catalog{}, fmt.Errorf("%w: category[%d] %q: %v", ErrInvalidCatalog, i, cat.Name, err)
		}
		if _, ok := declared[cat.Name]; ok {
			return Catalog{}, fmt.Errorf("%w: category name %q", ErrDuplicateKey, cat.Name)
		}
		if cat.HasParent() {
			if _, ok := declared[cat.Parent]; !ok {
				return Catalog{}, fmt.Errorf("%w: category %q references %q", ErrMissingParent, cat.Name, cat.Parent)
			}
		}
		declared[cat.Name] = struct{}{}
		c.categories = append(c.categories, cat)
	}

	return c, nil
}

// MustNew is like New but panics on error. Use only for compiled-in catalogs.
func MustNew(regions []RegionRecord, categories []CategoryRecord) Catalog {
	c, err := New(regions, categories)
	if err != nil {
		panic(err)
	}
	return c
}

// Regions returns the region records in declaration order
func (c Catalog) Regions() []RegionRecord {
	return slices.Clone(c.regions)
}

// Categories returns the category records in declaration order (parents first)
func (c Catalog) Categories() []CategoryRecord {
	return slices.Clone(c.categories)
}

// Len returns the total number of records
func (c Catalog) Len() int {
	return len(c.regions) + len(c.categories)
}

// Fingerprint returns a stable hash of the normalised catalog contents.
// Two catalogs with the same records in the same order share a fingerprint.
func (c Catalog) Fingerprint() string {
	d := xxhash.New()
	for _, r := range c.regions {
		writeFields(d, "region", r.Code, r.Name)
	}
	for _, cat := range c.categories {
		writeFields(d, "category", cat.Name, cat.Description, cat.Parent)
	}
	return fmt.Sprintf("%016x", d.Sum64())
}

func writeFields(d *xxhash.Digest, fields ...string) {
	for _, f := range fields {
		_, _ = d.WriteString(f)
		_, _ = d.Write([]byte{0})
	}
	_, _ = d.Write([]byte{'\n'})
}

func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

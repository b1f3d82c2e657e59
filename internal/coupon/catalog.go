package coupon

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// Catalog is an immutable set of coupons indexed by normalized code.
type Catalog struct {
	coupons []Coupon
	byCode  map[string]int
	source  string
}

// NewCatalog builds a catalog, rejecting duplicate codes and values that do
// not fit their coupon type.
func NewCatalog(coupons []Coupon) (*Catalog, error) {
	c := &Catalog{
		coupons: make([]Coupon, 0, len(coupons)),
		byCode:  make(map[string]int, len(coupons)),
	}

	for i, cp := range coupons {
		cp.Code = NormalizeCode(cp.Code)
		if cp.Code == "" {
			return nil, fmt.Errorf("coupon %d: code is required", i)
		}
		if _, exists := c.byCode[cp.Code]; exists {
			return nil, fmt.Errorf("coupon %s: duplicate code", cp.Code)
		}
		if err := checkCoupon(cp); err != nil {
			return nil, fmt.Errorf("coupon %s: %w", cp.Code, err)
		}

		c.byCode[cp.Code] = len(c.coupons)
		c.coupons = append(c.coupons, cp)
	}

	return c, nil
}

func checkCoupon(c Coupon) error {
	switch c.Type {
	case TypePercentage:
		if c.Value < 0 || c.Value > 100 {
			return fmt.Errorf("percentage value must be between 0 and 100, got %v", c.Value)
		}
	case TypeFixed, TypeFreeShipping:
		if c.Value < 0 {
			return fmt.Errorf("value must not be negative, got %v", c.Value)
		}
	default:
		return fmt.Errorf("unknown coupon type %q", c.Type)
	}

	if c.MinPurchase != nil && *c.MinPurchase < 0 {
		return fmt.Errorf("minimum purchase must not be negative")
	}
	if c.MaxDiscount != nil && *c.MaxDiscount < 0 {
		return fmt.Errorf("maximum discount must not be negative")
	}
	return nil
}

// Lookup finds a coupon by code, ignoring case and surrounding whitespace.
func (c *Catalog) Lookup(code string) (Coupon, bool) {
	i, ok := c.byCode[NormalizeCode(code)]
	if !ok {
		return Coupon{}, false
	}
	return c.coupons[i], true
}

// Coupons returns a copy of the catalog in definition order.
func (c *Catalog) Coupons() []Coupon {
	out := make([]Coupon, len(c.coupons))
	copy(out, c.coupons)
	return out
}

// Source names where the catalog was read from, such as
// "s3://bucket/coupons/catalog.yaml", "file://catalog.yaml" or "builtin".
// It is empty for catalogs built in memory.
func (c *Catalog) Source() string {
	return c.source
}

func (c *Catalog) withSource(source string) *Catalog {
	c.source = source
	return c
}

// Size returns the number of coupons in the catalog.
func (c *Catalog) Size() int {
	return len(c.coupons)
}

type catalogFile struct {
	Coupons []catalogEntry `yaml:"coupons"`
}

type catalogEntry struct {
	Code        string   `yaml:"code"`
	Type        Type     `yaml:"type"`
	Value       float64  `yaml:"value"`
	Description string   `yaml:"description"`
	MinPurchase *float64 `yaml:"minPurchase,omitempty"`
	MaxDiscount *float64 `yaml:"maxDiscount,omitempty"`
	ExpiresAt   string   `yaml:"expiresAt,omitempty"`
}

// expiryLayouts are tried in order; a bare date expires at the end of
// that day (UTC).
var expiryLayouts = []string{time.RFC3339Nano, "2006-01-02"}

// ParseCatalog decodes a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse coupon catalog: %w", err)
	}

	coupons := make([]Coupon, 0, len(file.Coupons))
	for _, e := range file.Coupons {
		cp := Coupon{
			Code:        e.Code,
			Type:        e.Type,
			Value:       e.Value,
			Description: e.Description,
			MinPurchase: e.MinPurchase,
			MaxDiscount: e.MaxDiscount,
		}
		if e.ExpiresAt != "" {
			expires, err := parseExpiry(e.ExpiresAt)
			if err != nil {
				return nil, fmt.Errorf("coupon %s: %w", e.Code, err)
			}
			cp.ExpiresAt = &expires
		}
		coupons = append(coupons, cp)
	}

	return NewCatalog(coupons)
}

func parseExpiry(s string) (time.Time, error) {
	for _, layout := range expiryLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if layout == "2006-01-02" {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid expiresAt %q", s)
}

// MarshalCatalog encodes c in the YAML form read by ParseCatalog.
func MarshalCatalog(c *Catalog) ([]byte, error) {
	file := catalogFile{Coupons: make([]catalogEntry, 0, c.Size())}
	for _, cp := range c.coupons {
		e := catalogEntry{
			Code:        cp.Code,
			Type:        cp.Type,
			Value:       cp.Value,
			Description: cp.Description,
			MinPurchase: cp.MinPurchase,
			MaxDiscount: cp.MaxDiscount,
		}
		if cp.ExpiresAt != nil {
			e.ExpiresAt = cp.ExpiresAt.UTC().Format(time.RFC3339Nano)
		}
		file.Coupons = append(file.Coupons, e)
	}

	out, err := yaml.Marshal(file)
	if err != nil {
		return nil, fmt.Errorf("failed to encode coupon catalog: %w", err)
	}
	return out, nil
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() (*Catalog, error) {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		return nil, err
	}
	return c.withSource(SourceBuiltin), nil
}

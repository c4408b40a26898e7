package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// SectionCode identifies a deduction section of the old regime. The set is
// closed: every code has an entry in the section catalog.
type SectionCode int

const (
	SectionUnknown SectionCode = iota
	Section80C
	Section80CCD1B
	Section80D
	Section80DParents
	Section80DDB
	Section80E
	Section80G
	Section80TTA
	Section24B
)

// CapPolicy describes how a section's statutory limit is applied.
type CapPolicy int

const (
	// CapNone sums eligible items without any limit.
	CapNone CapPolicy = iota
	// CapPerItem limits every item independently to the section cap.
	CapPerItem
	// CapPerGroup sums eligible items first, then limits the section total.
	CapPerGroup
)

func (p CapPolicy) String() string {
	switch p {
	case CapPerItem:
		return "per_item"
	case CapPerGroup:
		return "per_group"
	default:
		return "none"
	}
}

// SectionInfo is the catalog entry for one section.
type SectionInfo struct {
	Code     SectionCode
	Label    string
	Policy   CapPolicy
	Cap      decimal.Decimal // zero when Policy is CapNone
	Examples string          // instruments that qualify, used in tip narratives
}

// catalog is ordered; iteration order of Sections() is the display order.
var catalog = []SectionInfo{
	{Code: Section80C, Label: "80C", Policy: CapPerGroup, Cap: decimal.NewFromInt(150000), Examples: "PPF, ELSS, EPF, life insurance premium, tuition fees"},
	{Code: Section80CCD1B, Label: "80CCD(1B)", Policy: CapPerGroup, Cap: decimal.NewFromInt(50000), Examples: "additional NPS contribution"},
	{Code: Section80D, Label: "80D", Policy: CapPerGroup, Cap: decimal.NewFromInt(25000), Examples: "health insurance for self and family"},
	{Code: Section80DParents, Label: "80D(parents)", Policy: CapPerGroup, Cap: decimal.NewFromInt(50000), Examples: "health insurance for senior citizen parents"},
	{Code: Section80DDB, Label: "80DDB", Policy: CapPerItem, Cap: decimal.NewFromInt(40000), Examples: "treatment of specified diseases"},
	{Code: Section80E, Label: "80E", Policy: CapNone, Examples: "education loan interest"},
	{Code: Section80G, Label: "80G", Policy: CapNone, Examples: "eligible donations"},
	{Code: Section80TTA, Label: "80TTA", Policy: CapPerGroup, Cap: decimal.NewFromInt(10000), Examples: "savings account interest"},
	{Code: Section24B, Label: "24(b)", Policy: CapPerGroup, Cap: decimal.NewFromInt(200000), Examples: "interest on a self-occupied home loan"},
}

// Sections returns the catalog in display order.
func Sections() []SectionInfo {
	out := make([]SectionInfo, len(catalog))
	copy(out, catalog)
	return out
}

// Info returns the catalog entry for the code.
func (c SectionCode) Info() (SectionInfo, bool) {
	for _, s := range catalog {
		if s.Code == c {
			return s, true
		}
	}
	return SectionInfo{}, false
}

// Valid reports whether c is part of the catalog.
func (c SectionCode) Valid() bool {
	_, ok := c.Info()
	return ok
}

func (c SectionCode) String() string {
	if info, ok := c.Info(); ok {
		return info.Label
	}
	return "unknown"
}

// Slug is a lowercase alphanumeric form of the label ("80ccd1b", "24b").
func (c SectionCode) Slug() string {
	return normalizeSectionLabel(c.String())
}

// ParseSectionCode accepts a section label in any case, with or without
// punctuation ("80CCD(1B)", "80ccd1b", "80D parents", "24b").
func ParseSectionCode(s string) (SectionCode, error) {
	key := normalizeSectionLabel(s)
	for _, info := range catalog {
		if normalizeSectionLabel(info.Label) == key {
			return info.Code, nil
		}
	}
	return SectionUnknown, fmt.Errorf("unknown deduction section %q", s)
}

func normalizeSectionLabel(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (c SectionCode) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid deduction section %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *SectionCode) UnmarshalText(text []byte) error {
	code, err := ParseSectionCode(string(text))
	if err != nil {
		return err
	}
	*c = code
	return nil
}

// DeductionItem is one claimed line item. Cap, when set, limits this item on
// its own before any section-level limit is applied.
type DeductionItem struct {
	Name     string           `yaml:"name" json:"name"`
	Section  SectionCode      `yaml:"section" json:"section"`
	Claimed  decimal.Decimal  `yaml:"claimed" json:"claimed"`
	Cap      *decimal.Decimal `yaml:"cap,omitempty" json:"cap,omitempty"`
	Eligible bool             `yaml:"eligible" json:"eligible"`
}

// UnmarshalYAML implements custom YAML unmarshaling for DeductionItem.
// Eligible defaults to true when the key is absent.
func (d *DeductionItem) UnmarshalYAML(value *yaml.Node) error {
	type Alias struct {
		Name     string  `yaml:"name"`
		Section  string  `yaml:"section"`
		Claimed  string  `yaml:"claimed"`
		Cap      *string `yaml:"cap,omitempty"`
		Eligible *bool   `yaml:"eligible,omitempty"`
	}

	var aux Alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	section, err := ParseSectionCode(aux.Section)
	if err != nil {
		return err
	}
	d.Name = aux.Name
	d.Section = section

	d.Claimed = decimal.Zero
	if aux.Claimed != "" {
		claimed, err := decimal.NewFromString(aux.Claimed)
		if err != nil {
			return fmt.Errorf("deduction %q: invalid claimed amount: %w", aux.Name, err)
		}
		d.Claimed = claimed
	}

	d.Cap = nil
	if aux.Cap != nil {
		capAmount, err := decimal.NewFromString(*aux.Cap)
		if err != nil {
			return fmt.Errorf("deduction %q: invalid cap: %w", aux.Name, err)
		}
		d.Cap = &capAmount
	}

	d.Eligible = true
	if aux.Eligible != nil {
		d.Eligible = *aux.Eligible
	}
	return nil
}

// UnmarshalJSON mirrors UnmarshalYAML: Eligible defaults to true. Unknown
// keys are rejected so a misspelled amount is never read as zero.
func (d *DeductionItem) UnmarshalJSON(data []byte) error {
	type Alias DeductionItem
	aux := struct {
		Eligible *bool `json:"eligible"`
		*Alias
	}{Alias: (*Alias)(d)}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&aux); err != nil {
		return fmt.Errorf("deduction: %w", err)
	}
	d.Eligible = aux.Eligible == nil || *aux.Eligible
	return nil
}

// ItemCap returns the limit that applies to this item alone: the explicit
// cap if present, otherwise the section cap for per-item sections.
func (d DeductionItem) ItemCap() (decimal.Decimal, bool) {
	if d.Cap != nil {
		return NonNegative(*d.Cap), true
	}
	if info, ok := d.Section.Info(); ok && info.Policy == CapPerItem {
		return info.Cap, true
	}
	return decimal.Zero, false
}

// Effective is the item's contribution before any section-group limit.
func (d DeductionItem) Effective() decimal.Decimal {
	if !d.Eligible {
		return decimal.Zero
	}
	claimed := NonNegative(d.Claimed)
	if limit, ok := d.ItemCap(); ok {
		return decimal.Min(claimed, limit)
	}
	return claimed
}

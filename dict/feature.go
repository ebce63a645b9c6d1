// feature.go stores and structures MeCab CSV feature strings (spec.md §3
// FeatureString). Storage is a simple interned string table, referenced by
// index from WordEntry.FeatureID. Structuring a raw feature string into
// named fields follows the teacher's tagset.go newParsed shape (split the
// raw string, route pieces into named struct fields, bucket the rest) but
// IPADIC's feature columns are positional, not an unordered grammeme bag,
// so the routing here is by column index rather than by set membership.
package dict

import "strings"

// FeatureTable interns feature strings; index 0 is reserved for the empty
// string (Intern("") returns 0), so FeatureID's zero value resolves to an
// empty feature in partially-built entries.
type FeatureTable struct {
	strings []string
	index   map[string]uint32
}

// NewFeatureTable returns an empty table.
func NewFeatureTable() *FeatureTable {
	return &FeatureTable{strings: []string{""}, index: map[string]uint32{"": 0}}
}

// Intern returns the id for s, adding it if not already present.
func (t *FeatureTable) Intern(s string) uint32 {
	if id, ok := t.index[s]; ok {
		return id
	}
	id := uint32(len(t.strings))
	t.strings = append(t.strings, s)
	t.index[s] = id
	return id
}

// Get returns the feature string for id.
func (t *FeatureTable) Get(id uint32) string { return t.strings[id] }

// Len returns the number of distinct interned strings, including the
// reserved empty entry at index 0.
func (t *FeatureTable) Len() int { return len(t.strings) }

// All returns the table in insertion order, for serialization.
func (t *FeatureTable) All() []string { return t.strings }

// NewFeatureTableFromStrings rebuilds a table from a previously
// serialized ordered string list (index 0 must be "").
func NewFeatureTableFromStrings(strs []string) *FeatureTable {
	t := &FeatureTable{strings: strs, index: make(map[string]uint32, len(strs))}
	for i, s := range strs {
		t.index[s] = uint32(i)
	}
	return t
}

// IpadicFeature is the structured form of an IPADIC-style feature string:
// 品詞(POS),品詞細分類1-3,活用型,活用形,原形,読み,発音 — the nine
// comma-separated columns MeCab's standard dictionaries emit. Columns
// beyond the ninth are ignored, and columns missing from a shorter string
// read as "*".
type IpadicFeature struct {
	POS                          string
	POSSubcategory1              string
	POSSubcategory2              string
	POSSubcategory3              string
	ConjugationType              string
	ConjugationForm              string
	BaseForm                     string
	Reading                      string
	Pronunciation                string
}

// ParseIpadicFeature splits a raw feature string into its positional
// IPADIC columns.
func ParseIpadicFeature(raw string) IpadicFeature {
	cols := strings.Split(raw, ",")
	get := func(i int) string {
		if i < len(cols) {
			return cols[i]
		}
		return "*"
	}
	return IpadicFeature{
		POS:             get(0),
		POSSubcategory1: get(1),
		POSSubcategory2: get(2),
		POSSubcategory3: get(3),
		ConjugationType: get(4),
		ConjugationForm: get(5),
		BaseForm:        get(6),
		Reading:         get(7),
		Pronunciation:   get(8),
	}
}

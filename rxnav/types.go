package rxnav

// Term types used by the vocabulary service to tag concept groups.
// Concepts are related by rxcui identifiers, never by display name,
// since names are ambiguous across brands and salts.
const (
	TTYIngredient         = "IN"
	TTYGenericFormulation = "SCD"
	TTYBrandedFormulation = "SBD"
	TTYBrandName          = "BN"
	TTYDoseForm           = "DF"
)

// maxBrandNames caps the brand list returned to callers
const maxBrandNames = 5

// Concept is a single drug vocabulary entry
type Concept struct {
	RxCUI   string `json:"rxcui"`
	Name    string `json:"name"`
	Synonym string `json:"synonym,omitempty"`
	TTY     string `json:"tty"`
}

// ConceptGroup holds all concepts sharing one term type
type ConceptGroup struct {
	TTY      string    `json:"tty"`
	Concepts []Concept `json:"conceptProperties"`
}

// ResolvedMedicineInfo is the flattened view of a medicine derived from
// the vocabulary graph: its salt, generic formulation, known brands and
// dose form. Selection is first-seen-wins in upstream iteration order.
type ResolvedMedicineInfo struct {
	ActiveIngredient string   `json:"activeIngredient,omitempty"`
	GenericName      string   `json:"genericName,omitempty"`
	BrandNames       []string `json:"brandNames,omitempty"`
	DosageForm       string   `json:"dosageForm,omitempty"`
}

// drugGroupResponse mirrors the drugs.json search payload
type drugGroupResponse struct {
	DrugGroup struct {
		Name          string         `json:"name"`
		ConceptGroups []ConceptGroup `json:"conceptGroup"`
	} `json:"drugGroup"`
}

// allRelatedResponse mirrors the rxcui/{id}/allrelated.json payload
type allRelatedResponse struct {
	AllRelatedGroup struct {
		RxCUI         string         `json:"rxcui"`
		ConceptGroups []ConceptGroup `json:"conceptGroup"`
	} `json:"allRelatedGroup"`
}

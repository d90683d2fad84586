package rxnav

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound indicates the vocabulary service has no concept groups
// for the searched name.
var ErrNotFound = errors.New("no matching drug concepts found")

// commonNameMappings lists brand/international name pairs that users
// frequently search under the wrong name.
var commonNameMappings = []string{
	"Paracetamol = Acetaminophen",
	"Crocin = Paracetamol",
	"Calpol = Paracetamol",
	"Brufen = Ibuprofen",
	"Augmentin = Amoxicillin + Clavulanate",
}

// Suggestion builds the hint returned alongside a not-found failure
func Suggestion(name string) string {
	msg := fmt.Sprintf("no results for %q, try searching by the active ingredient instead. Common name mappings: ", name)
	for i, m := range commonNameMappings {
		if i > 0 {
			msg += "; "
		}
		msg += m
	}
	return msg
}

// Resolve turns a free-text medicine name into ResolvedMedicineInfo.
// It searches the vocabulary service, picks the first ingredient,
// generic formulation and branded formulation concepts in upstream
// order, then expands the formulation's related concepts to extract the
// salt, generic name, brand names and dose form.
//
// All failures come back as wrapped errors, never panics. A not-found
// name yields ErrNotFound with a suggestion message.
func (c *Client) Resolve(ctx context.Context, name string) (*ResolvedMedicineInfo, error) {
	groups, err := c.SearchDrugs(ctx, name)
	if err != nil {
		return nil, err
	}

	if !hasConcepts(groups) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, Suggestion(name))
	}

	// First concept per term type wins; upstream order is not re-sorted.
	var ingredient, generic, branded *Concept
	for gi := range groups {
		group := &groups[gi]
		if len(group.Concepts) == 0 {
			continue
		}
		switch group.TTY {
		case TTYIngredient:
			if ingredient == nil {
				ingredient = &group.Concepts[0]
			}
		case TTYGenericFormulation:
			if generic == nil {
				generic = &group.Concepts[0]
			}
		case TTYBrandedFormulation:
			if branded == nil {
				branded = &group.Concepts[0]
			}
		}
	}

	info := &ResolvedMedicineInfo{}
	if ingredient != nil {
		info.ActiveIngredient = ingredient.Name
	}
	if generic != nil {
		info.GenericName = generic.Name
	}

	// The related-concepts expansion needs a formulation identifier;
	// prefer the generic one since that is what the user is after.
	pivot := generic
	if pivot == nil {
		pivot = branded
	}
	if pivot == nil {
		return info, nil
	}

	related, err := c.AllRelated(ctx, pivot.RxCUI)
	if err != nil {
		return nil, err
	}

	c.mergeRelated(info, related)

	return info, nil
}

// mergeRelated fills info from the related concept groups, keeping the
// first concept seen per term type and at most maxBrandNames brands.
func (c *Client) mergeRelated(info *ResolvedMedicineInfo, groups []ConceptGroup) {
	for gi := range groups {
		group := &groups[gi]
		if len(group.Concepts) == 0 {
			continue
		}
		switch group.TTY {
		case TTYIngredient:
			if info.ActiveIngredient == "" {
				info.ActiveIngredient = group.Concepts[0].Name
			}
		case TTYGenericFormulation:
			if info.GenericName == "" {
				info.GenericName = group.Concepts[0].Name
			}
		case TTYBrandName, TTYBrandedFormulation:
			for ci := range group.Concepts {
				if len(info.BrandNames) >= maxBrandNames {
					break
				}
				info.BrandNames = append(info.BrandNames, group.Concepts[ci].Name)
			}
		case TTYDoseForm:
			if info.DosageForm == "" {
				info.DosageForm = group.Concepts[0].Name
			}
		}
	}
}

// hasConcepts reports whether any group carries at least one concept
func hasConcepts(groups []ConceptGroup) bool {
	for gi := range groups {
		if len(groups[gi].Concepts) > 0 {
			return true
		}
	}
	return false
}

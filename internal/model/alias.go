package model

import "strings"

// AliasInput holds externally known company names per semantic group.
type AliasInput struct {
	Group     []string `yaml:"group" json:"group"`
	Associate []string `yaml:"associate" json:"associate"`
	Other     []string `yaml:"other" json:"other"`
}

// Validate returns a copy with names trimmed, empty names dropped and
// duplicates removed. Order of first occurrence is kept.
func (in *AliasInput) Validate() AliasInput {
	if in == nil {
		return AliasInput{}
	}
	return AliasInput{
		Group:     cleanNames(in.Group),
		Associate: cleanNames(in.Associate),
		Other:     cleanNames(in.Other),
	}
}

// ByFamily returns the names supplied for a share family.
func (in AliasInput) ByFamily(f Family) []string {
	switch f {
	case FamilyGroup:
		return in.Group
	case FamilyAssociate:
		return in.Associate
	case FamilyOther:
		return in.Other
	}
	return nil
}

func cleanNames(names []string) []string {
	var out []string
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.Join(strings.Fields(n), " ")
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

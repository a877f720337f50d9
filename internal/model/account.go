package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Category is the semantic class an account is assigned to.
type Category string

const (
	CategoryGroupShares              Category = "group_shares"
	CategoryGroupShareImpairment     Category = "group_share_impairment"
	CategoryAssociateShares          Category = "associate_shares"
	CategoryAssociateShareImpairment Category = "associate_share_impairment"
	CategoryOtherOwnedShares         Category = "other_owned_shares"
	CategoryBuildings                Category = "buildings"
	CategoryBuildingDepreciation     Category = "building_depreciation"
	CategoryBuildingImpairment       Category = "building_impairment"
	CategoryMachinery                Category = "machinery"
	CategoryMachineryDepreciation    Category = "machinery_depreciation"
	CategoryMachineryImpairment      Category = "machinery_impairment"
	CategoryReceivable               Category = "receivable"
	CategoryPayable                  Category = "payable"
	CategoryUnclassified             Category = "unclassified"
)

// Family groups an asset category with its depreciation and impairment sub-categories.
type Family string

const (
	FamilyNone      Family = ""
	FamilyGroup     Family = "group"
	FamilyAssociate Family = "associate"
	FamilyOther     Family = "other"
	FamilyBuildings Family = "buildings"
	FamilyMachinery Family = "machinery"
)

// Role is the position of a category within its family.
type Role string

const (
	RoleNone         Role = ""
	RoleAsset        Role = "asset"
	RoleDepreciation Role = "depreciation"
	RoleImpairment   Role = "impairment"
)

type categoryInfo struct {
	family Family
	role   Role
}

var categoryOrder = []Category{
	CategoryGroupShares,
	CategoryGroupShareImpairment,
	CategoryAssociateShares,
	CategoryAssociateShareImpairment,
	CategoryOtherOwnedShares,
	CategoryBuildings,
	CategoryBuildingDepreciation,
	CategoryBuildingImpairment,
	CategoryMachinery,
	CategoryMachineryDepreciation,
	CategoryMachineryImpairment,
	CategoryReceivable,
	CategoryPayable,
	CategoryUnclassified,
}

var categories = map[Category]categoryInfo{
	CategoryGroupShares:              {FamilyGroup, RoleAsset},
	CategoryGroupShareImpairment:     {FamilyGroup, RoleImpairment},
	CategoryAssociateShares:          {FamilyAssociate, RoleAsset},
	CategoryAssociateShareImpairment: {FamilyAssociate, RoleImpairment},
	CategoryOtherOwnedShares:         {FamilyOther, RoleAsset},
	CategoryBuildings:                {FamilyBuildings, RoleAsset},
	CategoryBuildingDepreciation:     {FamilyBuildings, RoleDepreciation},
	CategoryBuildingImpairment:       {FamilyBuildings, RoleImpairment},
	CategoryMachinery:                {FamilyMachinery, RoleAsset},
	CategoryMachineryDepreciation:    {FamilyMachinery, RoleDepreciation},
	CategoryMachineryImpairment:      {FamilyMachinery, RoleImpairment},
	CategoryReceivable:               {FamilyNone, RoleNone},
	CategoryPayable:                  {FamilyNone, RoleNone},
	CategoryUnclassified:             {FamilyNone, RoleNone},
}

// Categories returns every category in report order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// ParseCategory accepts the snake_case name of a category, case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categories[c]; !ok {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

// Family returns the asset family c belongs to, or FamilyNone.
func (c Category) Family() Family { return categories[c].family }

// Role returns the role c plays within its family.
func (c Category) Role() Role { return categories[c].role }

// IsShare reports whether c belongs to one of the share families.
func (c Category) IsShare() bool {
	switch c.Family() {
	case FamilyGroup, FamilyAssociate, FamilyOther:
		return true
	}
	return false
}

// Index is the position of c in report order.
func (c Category) Index() int {
	for i, o := range categoryOrder {
		if o == c {
			return i
		}
	}
	return len(categoryOrder)
}

// FamilyCategory returns the category playing role r in family f.
func FamilyCategory(f Family, r Role) (Category, bool) {
	for _, c := range categoryOrder {
		info := categories[c]
		if info.family == f && info.role == r && f != FamilyNone {
			return c, true
		}
	}
	return "", false
}

// Families returns the asset families in report order.
func Families() []Family {
	return []Family{FamilyGroup, FamilyAssociate, FamilyOther, FamilyBuildings, FamilyMachinery}
}

// MatchRule names the precedence rule that decided an account's category.
type MatchRule string

const (
	RuleOverride MatchRule = "override"
	RuleRange    MatchRule = "range"
	RuleAuxCode  MatchRule = "aux_code"
	RuleKeyword  MatchRule = "keyword"
	RuleAlias    MatchRule = "alias"
	RuleNone     MatchRule = "none"
)

// BalanceKind is one of the three balance tags.
type BalanceKind string

const (
	BalanceOpening BalanceKind = "opening"
	BalanceClosing BalanceKind = "closing"
	BalanceResult  BalanceKind = "result"
)

// BalanceSet holds the three balance kinds for one fiscal year.
type BalanceSet struct {
	Opening decimal.Decimal `json:"opening"`
	Closing decimal.Decimal `json:"closing"`
	Result  decimal.Decimal `json:"result"`
}

// Set stores amount under kind.
func (b *BalanceSet) Set(kind BalanceKind, amount decimal.Decimal) {
	switch kind {
	case BalanceOpening:
		b.Opening = amount
	case BalanceClosing:
		b.Closing = amount
	case BalanceResult:
		b.Result = amount
	}
}

// Account is one row of the ledger's chart of accounts.
type Account struct {
	Number     int        `json:"number"`
	Name       string     `json:"name"`
	Type       string     `json:"type,omitempty"` // #KTYP: T, S, K or I
	AuxCode    int        `json:"aux_code,omitempty"` // 0 = none
	Category   Category   `json:"category"`
	Impairment bool       `json:"impairment_subaccount"`
	Rule       MatchRule  `json:"rule"`
	Reason     string     `json:"reason,omitempty"`
	Used       bool       `json:"used"`
	Current    BalanceSet `json:"current"`
	Prior      BalanceSet `json:"prior"`
}

// PlaceholderName is the name given to accounts declared without one.
func PlaceholderName(number int) string {
	return fmt.Sprintf("Account %d", number)
}

// IsUsed reports whether any of the six balance fields exceeds epsilon in magnitude.
func (a Account) IsUsed(epsilon decimal.Decimal) bool {
	for _, v := range []decimal.Decimal{
		a.Current.Opening, a.Current.Closing, a.Current.Result,
		a.Prior.Opening, a.Prior.Closing, a.Prior.Result,
	} {
		if v.Abs().GreaterThan(epsilon) {
			return true
		}
	}
	return false
}

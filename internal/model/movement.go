package model

// MovementKind names a roll-forward bucket.
type MovementKind string

const (
	MovePurchase                   MovementKind = "purchase"
	MoveMerger                     MovementKind = "merger"
	MoveContribution               MovementKind = "shareholder_contribution"
	MoveContributionRepaid         MovementKind = "shareholder_contribution_repaid"
	MoveDisposal                   MovementKind = "disposal"
	MoveResultShare                MovementKind = "partner_result_share"
	MoveResultShareSettlement      MovementKind = "result_share_settlement"
	MoveRevaluation                MovementKind = "revaluation"
	MoveReclassification           MovementKind = "reclassification"
	MoveDepreciation               MovementKind = "depreciation"
	MoveRevaluationDepreciation    MovementKind = "revaluation_depreciation"
	MoveDisposalDepreciationRev    MovementKind = "disposal_depreciation_reversal"
	MoveImpairment                 MovementKind = "impairment"
	MoveImpairmentReversal         MovementKind = "impairment_reversal"
	MoveMergerImpairmentReversal   MovementKind = "merger_impairment_reversal"
	MoveDisposalImpairmentReversal MovementKind = "disposal_impairment_reversal"
	MoveNetChange                  MovementKind = "net_change"
)

var movementOrder = []MovementKind{
	MovePurchase,
	MoveMerger,
	MoveContribution,
	MoveContributionRepaid,
	MoveDisposal,
	MoveResultShare,
	MoveResultShareSettlement,
	MoveRevaluation,
	MoveReclassification,
	MoveDepreciation,
	MoveRevaluationDepreciation,
	MoveDisposalDepreciationRev,
	MoveImpairment,
	MoveImpairmentReversal,
	MoveMergerImpairmentReversal,
	MoveDisposalImpairmentReversal,
	MoveNetChange,
}

// MovementKinds returns every movement kind in report order.
func MovementKinds() []MovementKind {
	out := make([]MovementKind, len(movementOrder))
	copy(out, movementOrder)
	return out
}

// Index is the position of k in report order.
func (k MovementKind) Index() int {
	for i, o := range movementOrder {
		if o == k {
			return i
		}
	}
	return len(movementOrder)
}

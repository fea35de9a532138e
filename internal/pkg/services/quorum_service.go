package services

import "sahakari/bachatgat_ledger/internal/pkg/consts"

// QuorumService owns the voting arithmetic. The numbers frozen at loan
// creation and the effective quorum recomputed on every vote are kept as
// separate functions since the off-by-one cases differ.
type QuorumService struct{}

func NewQuorumService() *QuorumService {
	return &QuorumService{}
}

// FrozenQuorum computes the voter pool frozen at loan creation: every
// active member except the requester, with a strict majority threshold.
// Two eligible voters therefore require both of them; one requires one;
// zero blocks loan creation.
func (q *QuorumService) FrozenQuorum(activeMemberCount int) (eligible, required int, err error) {
	eligible = activeMemberCount - 1
	if eligible < 1 {
		return 0, 0, consts.ErrorNotEnoughMembers
	}
	required = eligible/2 + 1
	return eligible, required, nil
}

// EffectiveQuorum re-bases the threshold against current membership. The
// denominator may only shrink relative to the frozen value (members who
// joined after creation never count), and never below the votes already
// cast: a vote, once recorded, stays in the tally even if the voter has
// since left.
func (q *QuorumService) EffectiveQuorum(frozenEligible, currentActiveMembers, votesCast int) (eligible, required int) {
	eligible = currentActiveMembers - 1
	if eligible > frozenEligible {
		eligible = frozenEligible
	}
	if eligible < votesCast {
		eligible = votesCast
	}
	if eligible < 1 {
		eligible = 1
	}
	required = eligible/2 + 1
	return eligible, required
}

package rewards

import (
	"context"
	"fmt"
	"log"
	"sort"

	appErrors "rewards/internal/errors"
)

// RecommendBestCard values spend in category on every active card of the
// user and returns them best first. Cards without an applicable rule stay
// in the list without a value.
func (s *Service) RecommendBestCard(ctx context.Context, userID uint, spend float64, category string) (*Recommendation, error) {
	if err := ValidateAmount("spend_amount", spend); err != nil {
		return nil, err
	}
	cat, err := s.tables.NormalizeCategory(category)
	if err != nil {
		return nil, err
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	cards, rules, err := s.loadActiveCards(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, appErrors.NotFound("NO_ACTIVE_CARDS", fmt.Sprintf("no active cards found for user %d", userID))
	}

	estimates := make([]*Estimate, 0, len(cards))
	for i, card := range cards {
		estimates = append(estimates, s.estimate(card, rules[i], spend, cat))
	}

	s.tables.rankEstimates(estimates)

	rec := &Recommendation{
		UserID:         userID,
		UserPreference: user.Preference,
		SpendAmount:    spend,
		Category:       cat,
		Estimates:      estimates,
	}
	rec.Estimates, rec.Reranked = s.rerank(ctx, rec)
	return rec, nil
}

// rankEstimates puts supported estimates first, sorted by value descending
// and keeping input order on equal values, and flags a close tie between
// the top two valued estimates.
func (t *Tables) rankEstimates(estimates []*Estimate) {
	sort.SliceStable(estimates, func(i, j int) bool {
		if si, sj := estimates[i].Supported(), estimates[j].Supported(); si != sj {
			return si
		}
		return estimates[i].sortKey() > estimates[j].sortKey()
	})

	if len(estimates) < 2 {
		return
	}
	top, second := estimates[0], estimates[1]
	if !top.Supported() || !second.Supported() {
		return
	}
	if isCloseTie(top.sortKey(), second.sortKey(), t.thresholds.CloseTieRatio) {
		for _, e := range []*Estimate{top, second} {
			e.CloseTie = true
			e.TradeOffNeeded = true
		}
	}
}

// isCloseTie reports whether second is within ratio of top. A top value of
// zero or less never ties: there is nothing to trade off.
func isCloseTie(top, second, ratio float64) bool {
	if top <= 0 {
		return false
	}
	return top-second <= ratio*top
}

// nearTieCount returns how many leading estimates lie within ratio of the
// top value. estimates must already be ranked.
func nearTieCount(estimates []*Estimate, ratio float64) int {
	if len(estimates) == 0 || !estimates[0].Supported() {
		return 0
	}
	top := estimates[0].sortKey()
	if top <= 0 {
		return 0
	}
	n := 0
	for _, e := range estimates {
		if !e.Supported() || e.sortKey() < top*(1-ratio) {
			break
		}
		n++
	}
	return n
}

// rerank hands the near-tie head of a ranked list to the external
// reranker. Any failure keeps the value order; nothing is surfaced.
func (s *Service) rerank(ctx context.Context, rec *Recommendation) ([]*Estimate, bool) {
	ranked := rec.Estimates
	if s.reranker == nil {
		return ranked, false
	}
	n := nearTieCount(ranked, s.tables.thresholds.RerankRatio)
	if n < 2 {
		return ranked, false
	}

	req := RerankRequest{
		Preference:  rec.UserPreference,
		SpendAmount: rec.SpendAmount,
		Category:    rec.Category,
		Candidates:  make([]RerankCandidate, 0, n),
	}
	for _, e := range ranked[:n] {
		req.Candidates = append(req.Candidates, RerankCandidate{
			CardID:         e.CardID,
			CardName:       e.CardName,
			Bank:           e.Bank,
			RewardType:     e.RewardType,
			EstimatedValue: round2(e.value),
			AnnualFee:      e.AnnualFee,
		})
	}

	ids, err := s.callReranker(ctx, req)
	if err != nil {
		log.Printf("reranker unavailable, keeping value order: %v", err)
		return ranked, false
	}

	head := reorderByIDs(ranked[:n], ids)
	out := make([]*Estimate, 0, len(ranked))
	out = append(out, head...)
	out = append(out, ranked[n:]...)
	return out, true
}

// callReranker runs the reranker under the rerank timeout. The call is
// abandoned, not awaited, once the deadline passes.
func (s *Service) callReranker(ctx context.Context, req RerankRequest) ([]uint, error) {
	ctx, cancel := context.WithTimeout(ctx, s.rerankTimeout)
	defer cancel()

	type result struct {
		ids []uint
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("reranker panicked: %v", r)}
			}
		}()
		ids, err := s.reranker.Rerank(ctx, req)
		done <- result{ids: ids, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.ids, r.err
	}
}

// reorderByIDs orders subset by ids. Ids outside the subset and repeats
// are ignored; subset members the ids omit follow in their current order.
func reorderByIDs(subset []*Estimate, ids []uint) []*Estimate {
	byID := make(map[uint]*Estimate, len(subset))
	for _, e := range subset {
		byID[e.CardID] = e
	}

	out := make([]*Estimate, 0, len(subset))
	placed := make(map[uint]bool, len(subset))
	for _, id := range ids {
		e, ok := byID[id]
		if !ok || placed[id] {
			continue
		}
		placed[id] = true
		out = append(out, e)
	}
	for _, e := range subset {
		if !placed[e.CardID] {
			out = append(out, e)
		}
	}
	return out
}

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/budgeterp/backend/internal/domain/document"
	"github.com/google/uuid"
)

// MatchStrategy controls how historical lines are matched to the
// current one
type MatchStrategy string

const (
	// MatchStrategyExact requires the same product ID
	MatchStrategyExact MatchStrategy = "exact"
	// MatchStrategyFuzzy falls back to a normalized product name match
	// when the line has no product reference
	MatchStrategyFuzzy MatchStrategy = "fuzzy"
)

// IsValid checks if the strategy is a valid MatchStrategy
func (s MatchStrategy) IsValid() bool {
	return s == MatchStrategyExact || s == MatchStrategyFuzzy
}

// HistoryRecommender scores analytics by how often the same
// partner/product pairing was assigned to them in past confirmed
// documents. Confidence is the winning analytic's share of all
// observed assignments.
type HistoryRecommender struct {
	history    document.HistoryQuery
	strategy   MatchStrategy
	windowDays int
}

// NewHistoryRecommender creates a new HistoryRecommender
func NewHistoryRecommender(history document.HistoryQuery, strategy MatchStrategy, windowDays int) *HistoryRecommender {
	if !strategy.IsValid() {
		strategy = MatchStrategyFuzzy
	}
	if windowDays <= 0 {
		windowDays = 365
	}
	return &HistoryRecommender{
		history:    history,
		strategy:   strategy,
		windowDays: windowDays,
	}
}

// Recommend returns the pattern-based recommendation for the request,
// or the empty recommendation when there is no usable history
func (r *HistoryRecommender) Recommend(ctx context.Context, req Request) (Recommendation, error) {
	productName := req.ProductName
	if r.strategy == MatchStrategyExact {
		if req.ProductID == nil {
			return None(), nil
		}
		productName = ""
	}

	since := time.Now().AddDate(0, 0, -r.windowDays)
	observations, err := r.history.AssignmentsForPartnerProduct(ctx, req.PartnerID, req.ProductID, productName, since)
	if err != nil {
		return Recommendation{}, err
	}
	if req.ProductID == nil && productName != "" {
		observations = overlappingByName(observations, productName)
	}
	if len(observations) == 0 {
		return None(), nil
	}

	type tally struct {
		count int
		name  string
		first int
	}
	counts := make(map[uuid.UUID]*tally)
	for idx, obs := range observations {
		entry, ok := counts[obs.AnalyticID]
		if !ok {
			entry = &tally{name: obs.AnalyticName, first: idx}
			counts[obs.AnalyticID] = entry
		}
		entry.count++
	}

	// Observations arrive newest first; ties go to the analytic seen
	// most recently so repeated runs stay deterministic.
	var winnerID uuid.UUID
	var winner *tally
	for id, entry := range counts {
		if winner == nil || entry.count > winner.count ||
			(entry.count == winner.count && entry.first < winner.first) {
			winnerID = id
			winner = entry
		}
	}

	confidence := float64(winner.count) / float64(len(observations))
	analyticID := winnerID

	return Recommendation{
		AnalyticID:   &analyticID,
		AnalyticName: winner.name,
		Source:       SourcePattern,
		Confidence:   confidence,
		Reason:       fmt.Sprintf("matched in %d of %d past purchases from this partner", winner.count, len(observations)),
	}, nil
}

// overlappingByName keeps observations whose product name shares a
// token with the requested name, ignoring case. The store returns
// substring candidates; this trims partial-word hits.
func overlappingByName(observations []document.AssignmentObservation, productName string) []document.AssignmentObservation {
	kept := observations[:0]
	for _, obs := range observations {
		if document.NamesOverlap(productName, obs.ProductName) {
			kept = append(kept, obs)
		}
	}
	return kept
}

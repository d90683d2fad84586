package agent

import (
	"context"

	"github.com/medisave/genericmeds-api/logging"
	"github.com/medisave/genericmeds-api/metrics"
	"github.com/medisave/genericmeds-api/rxnav"
)

// janAushadhiTip points users at the government generic-medicine
// program; it rides along with every combined lookup.
const janAushadhiTip = "Jan Aushadhi Kendras sell government-certified generic medicines at a fraction of branded prices. Find a nearby store at janaushadhi.gov.in."

// CombinedFinding is the primary tool's payload: vocabulary data and
// price data side by side, each degrading independently on failure.
type CombinedFinding struct {
	Query        string                      `json:"query"`
	APIData      *rxnav.ResolvedMedicineInfo `json:"apiData"`
	IndianPrices any                         `json:"indianPrices"`
	Tip          string                      `json:"tip"`
}

// priceFailure marks a failed price lookup inside the payload
type priceFailure struct {
	Error string `json:"error"`
}

// findGenericWithPrices runs the vocabulary lookup and the grounded
// price search in sequence. The two are independent: a failure in one
// never skips or cancels the other, and the method itself never fails.
func (a *Agent) findGenericWithPrices(ctx context.Context, searchID, medicineName string) *CombinedFinding {
	finding := &CombinedFinding{
		Query: medicineName,
		Tip:   janAushadhiTip,
	}

	info, err := a.resolver.Resolve(ctx, medicineName)
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("rxnav").Inc()
		logging.Warn("Vocabulary resolution failed",
			"search_id", searchID,
			"medicine", medicineName,
			"error", err)
	} else {
		finding.APIData = info
	}

	activeIngredient := ""
	if finding.APIData != nil {
		activeIngredient = finding.APIData.ActiveIngredient
	}

	prices, err := a.prices.FindIndianPrices(ctx, medicineName, activeIngredient)
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("gemini").Inc()
		logging.Warn("Price grounding failed",
			"search_id", searchID,
			"medicine", medicineName,
			"error", err)
		finding.IndianPrices = priceFailure{Error: err.Error()}
	} else {
		finding.IndianPrices = prices
	}

	return finding
}

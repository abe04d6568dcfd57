// Package agency parses and ranks the per-region top-agency contribution
// lists shown in the selection detail view.
package agency

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/shfb-analytics/accessmap/internal/model"
)

// ContributionDecimals is the presentation precision for contributions.
const ContributionDecimals = 3

// Parse decodes a top-agency payload. Structured payloads pass through;
// raw payloads are decoded as JSON. The boolean reports a parse failure:
// malformed input yields an empty list with the flag set, never an error,
// so one bad record cannot block the rest of a query. A valid empty payload
// ("[]" or blank) is not a failure.
func Parse(p model.AgencyPayload) ([]model.AgencyShare, bool) {
	if p.Structured {
		out := make([]model.AgencyShare, len(p.Shares))
		copy(out, p.Shares)
		return out, false
	}

	raw := strings.TrimSpace(p.Raw)
	if raw == "" {
		return nil, false
	}

	var shares []model.AgencyShare
	if err := json.Unmarshal([]byte(raw), &shares); err != nil {
		zap.L().Warn("agency: unparseable top-agency payload",
			zap.String("payload", truncate(raw, 120)),
			zap.Error(err),
		)
		return nil, true
	}
	return shares, false
}

// SortByContribution orders shares by contribution descending, name
// ascending on ties. It sorts in place and returns its argument.
func SortByContribution(shares []model.AgencyShare) []model.AgencyShare {
	sort.SliceStable(shares, func(i, j int) bool {
		if shares[i].Contribution != shares[j].Contribution {
			return shares[i].Contribution > shares[j].Contribution
		}
		return shares[i].Name < shares[j].Name
	})
	return shares
}

// Presented returns a copy with contributions rounded for display. The
// stored values are never mutated; rounding happens only here.
func Presented(shares []model.AgencyShare) []model.AgencyShare {
	out := make([]model.AgencyShare, len(shares))
	for i, s := range shares {
		s.Contribution = roundTo(s.Contribution, ContributionDecimals)
		out[i] = s
	}
	return out
}

func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

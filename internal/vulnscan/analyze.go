package vulnscan

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Recommendation classifies how a tool may be used on the corporate network.
type Recommendation string

const (
	RecommendationSafe           Recommendation = "safe"
	RecommendationTestEnv        Recommendation = "test-env"
	RecommendationNotRecommended Recommendation = "not-recommended"
)

// Vulnerability is a single scored CVE record.
type Vulnerability struct {
	ID             string  `json:"id"`
	Description    string  `json:"description"`
	Severity       string  `json:"severity"`
	CVSSScore      float64 `json:"cvssScore"`
	Year           int     `json:"year"`
	PatchAvailable bool    `json:"patchAvailable"`
	Deferred       bool    `json:"isDeferred"`
	RelevanceScore int     `json:"relevanceScore"`
	PublishedDate  string  `json:"publishedDate,omitempty"`
	LastModified   string  `json:"lastModified,omitempty"`
}

// RiskFactors summarizes the severity distribution of the relevant CVEs.
type RiskFactors struct {
	CriticalCount int `json:"criticalCount"`
	HighCount     int `json:"highCount"`
	RecentCount   int `json:"recentCount"`
	DeferredCount int `json:"deferredCount"`
}

// Analysis is the full risk assessment for one tool.
type Analysis struct {
	ToolName           string          `json:"toolName"`
	Version            string          `json:"version"`
	Vulnerabilities    []Vulnerability `json:"cves"`
	Relevant           []Vulnerability `json:"filteredCves"`
	SafeToUse          bool            `json:"safeToUse"`
	PreferredVersion   string          `json:"preferredVersion"`
	RequiresVirtualEnv bool            `json:"requiresVirtualEnv"`
	Recommendation     Recommendation  `json:"recommendation"`
	CompositeRiskScore float64         `json:"compositeRiskScore"`
	RiskFactors        RiskFactors     `json:"riskFactors"`
	Degraded           bool            `json:"degraded"`
	GeneratedAt        time.Time       `json:"generatedAt"`
}

// relevanceScore estimates how likely a CVE record is about the searched tool
// rather than an incidental keyword hit. Never negative.
func relevanceScore(description, searchTerm string) int {
	desc := strings.ToLower(description)
	term := strings.ToLower(searchTerm)

	score := 0
	if strings.Contains(desc, term) {
		score += 3
	}
	if strings.Contains(desc, "example") || strings.Contains(desc, "demonstration") {
		score -= 2
	}
	if strings.Contains(desc, term+" vulnerability") ||
		strings.Contains(desc, term+" buffer overflow") ||
		strings.Contains(desc, term+" denial of service") {
		score += 5
	}

	if score < 0 {
		return 0
	}
	return score
}

// isRecent reports whether the CVE year is within the last three years.
func isRecent(year int, now time.Time) bool {
	return now.Year()-year <= 3
}

// isDeferred reports whether a CVE record lacks metrics or a usable
// description and should be excluded from scoring.
func isDeferred(v nvdVulnerability) bool {
	hasMetrics := len(v.CVE.Metrics.CVSSMetricV31) > 0 || len(v.CVE.Metrics.CVSSMetricV2) > 0
	hasDescription := len(v.CVE.Descriptions) > 0 &&
		v.CVE.Descriptions[0].Value != "" &&
		v.CVE.Descriptions[0].Value != "** RESERVED **"
	return !hasMetrics || !hasDescription
}

// patchAvailable checks several signals that a fix exists for the CVE.
func patchAvailable(v nvdVulnerability) bool {
	desc := ""
	if len(v.CVE.Descriptions) > 0 {
		desc = strings.ToLower(v.CVE.Descriptions[0].Value)
	}

	patchKeywords := []string{
		"patch", "fixed", "update", "upgrade", "patched",
		"resolved", "addressed", "mitigated", "corrected",
	}
	for _, kw := range patchKeywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}

	for _, conf := range v.CVE.Configurations {
		for _, node := range conf.Nodes {
			for _, match := range node.CPEMatch {
				if !match.Vulnerable {
					return true
				}
			}
		}
	}

	return len(v.CVE.References) > 0
}

// compositeRiskScore is a weighted CVSS average over the relevant CVEs,
// weighting recency, severity and relevance, rounded to one decimal.
func compositeRiskScore(relevant []Vulnerability, now time.Time) float64 {
	if len(relevant) == 0 {
		return 0
	}

	totalScore := 0.0
	weightedCount := 0.0
	for _, cve := range relevant {
		weight := 1.0
		if isRecent(cve.Year, now) {
			weight += 0.5
		}
		switch cve.Severity {
		case "critical":
			weight += 1
		case "high":
			weight += 0.5
		}
		if cve.RelevanceScore > 3 {
			weight += 0.3
		}
		totalScore += cve.CVSSScore * weight
		weightedCount += weight
	}

	if weightedCount == 0 {
		return 0
	}
	return math.Round(totalScore/weightedCount*10) / 10
}

func cveYear(id string, now time.Time) int {
	parts := strings.Split(id, "-")
	if len(parts) >= 2 {
		if year, err := strconv.Atoi(parts[1]); err == nil {
			return year
		}
	}
	return now.Year()
}

func severityAndScore(v nvdVulnerability) (string, float64) {
	if len(v.CVE.Metrics.CVSSMetricV31) > 0 {
		d := v.CVE.Metrics.CVSSMetricV31[0].CVSSData
		return strings.ToLower(d.BaseSeverity), d.BaseScore
	}
	if len(v.CVE.Metrics.CVSSMetricV2) > 0 {
		d := v.CVE.Metrics.CVSSMetricV2[0].CVSSData
		sev := strings.ToLower(d.BaseSeverity)
		if sev == "" {
			sev = "medium"
		}
		return sev, d.BaseScore
	}
	return "medium", 0
}

// Analyze scores the raw NVD records for the given search term and produces
// the full recommendation.
func Analyze(searchTerm string, resp *nvdResponse, now time.Time) *Analysis {
	all := make([]Vulnerability, 0, len(resp.Vulnerabilities))
	for _, v := range resp.Vulnerabilities {
		desc := "No description available"
		if len(v.CVE.Descriptions) > 0 && v.CVE.Descriptions[0].Value != "" {
			desc = v.CVE.Descriptions[0].Value
		}
		severity, score := severityAndScore(v)

		all = append(all, Vulnerability{
			ID:             v.CVE.ID,
			Description:    desc,
			Severity:       severity,
			CVSSScore:      score,
			Year:           cveYear(v.CVE.ID, now),
			PatchAvailable: patchAvailable(v),
			Deferred:       isDeferred(v),
			RelevanceScore: relevanceScore(desc, searchTerm),
			PublishedDate:  v.CVE.Published,
			LastModified:   v.CVE.LastModified,
		})
	}

	// Keep only CVEs with a real score that plausibly concern the tool.
	relevant := make([]Vulnerability, 0, len(all))
	for _, cve := range all {
		if !cve.Deferred && cve.RelevanceScore > 0 && cve.CVSSScore > 0 {
			relevant = append(relevant, cve)
		}
	}

	factors := RiskFactors{}
	for _, cve := range relevant {
		switch cve.Severity {
		case "critical":
			factors.CriticalCount++
		case "high":
			factors.HighCount++
		}
		if isRecent(cve.Year, now) {
			factors.RecentCount++
		}
	}
	for _, cve := range all {
		if cve.Deferred {
			factors.DeferredCount++
		}
	}

	composite := compositeRiskScore(relevant, now)

	recommendation := RecommendationSafe
	switch {
	case factors.CriticalCount > 0:
		recommendation = RecommendationNotRecommended
	case factors.HighCount > 0 || composite > 6.0:
		recommendation = RecommendationTestEnv
	}

	return &Analysis{
		ToolName:           searchTerm,
		Version:            "Latest",
		Vulnerabilities:    all,
		Relevant:           relevant,
		SafeToUse:          factors.CriticalCount == 0 && factors.HighCount <= 1,
		PreferredVersion:   PreferredVersion(searchTerm, relevant, now),
		RequiresVirtualEnv: factors.CriticalCount > 0 || factors.HighCount > 0 || composite > 7.0,
		Recommendation:     recommendation,
		CompositeRiskScore: composite,
		RiskFactors:        factors,
		GeneratedAt:        now,
	}
}

package vulnscan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func nvdRecord(id, description, severity string, score float64) nvdVulnerability {
	return nvdVulnerability{
		CVE: nvdCVE{
			ID:           id,
			Descriptions: []nvdDescription{{Lang: "en", Value: description}},
			Metrics: nvdMetrics{
				CVSSMetricV31: []nvdCVSSMetric{
					{CVSSData: nvdCVSSData{BaseScore: score, BaseSeverity: severity}},
				},
			},
			References: []nvdReference{{URL: "https://example.com/advisory"}},
		},
	}
}

func TestAnalyzeCriticalMeansNotRecommended(t *testing.T) {
	resp := &nvdResponse{
		Vulnerabilities: []nvdVulnerability{
			nvdRecord("CVE-2025-0001", "scantool vulnerability allows remote code execution", "CRITICAL", 9.8),
			nvdRecord("CVE-2025-0002", "scantool buffer overflow in parser", "HIGH", 8.1),
			nvdRecord("CVE-2024-0003", "minor issue in scantool config loader", "LOW", 3.1),
			nvdRecord("CVE-2023-0004", "scantool denial of service via crafted input", "LOW", 3.3),
			nvdRecord("CVE-2022-0005", "information leak in scantool logs", "LOW", 2.7),
		},
	}

	analysis := Analyze("scantool", resp, testNow)

	assert.Equal(t, RecommendationNotRecommended, analysis.Recommendation)
	assert.False(t, analysis.SafeToUse)
	assert.True(t, analysis.RequiresVirtualEnv)
	assert.Equal(t, 1, analysis.RiskFactors.CriticalCount)
	assert.Equal(t, 1, analysis.RiskFactors.HighCount)
	assert.Len(t, analysis.Relevant, 5)
}

func TestAnalyzeNoVulnerabilitiesIsSafe(t *testing.T) {
	analysis := Analyze("obscuretool", &nvdResponse{}, testNow)

	assert.Equal(t, RecommendationSafe, analysis.Recommendation)
	assert.True(t, analysis.SafeToUse)
	assert.False(t, analysis.RequiresVirtualEnv)
	assert.Zero(t, analysis.CompositeRiskScore)
	assert.Empty(t, analysis.Relevant)
	assert.Equal(t, "Latest Stable Release", analysis.PreferredVersion)
}

func TestAnalyzeFiltersDeferredRecords(t *testing.T) {
	reserved := nvdVulnerability{
		CVE: nvdCVE{
			ID:           "CVE-2025-9999",
			Descriptions: []nvdDescription{{Lang: "en", Value: "** RESERVED **"}},
		},
	}
	noMetrics := nvdVulnerability{
		CVE: nvdCVE{
			ID:           "CVE-2025-9998",
			Descriptions: []nvdDescription{{Lang: "en", Value: "scantool issue awaiting triage"}},
		},
	}
	resp := &nvdResponse{
		Vulnerabilities: []nvdVulnerability{
			reserved,
			noMetrics,
			nvdRecord("CVE-2025-0001", "scantool vulnerability in request handling", "MEDIUM", 5.4),
		},
	}

	analysis := Analyze("scantool", resp, testNow)

	assert.Len(t, analysis.Vulnerabilities, 3)
	assert.Len(t, analysis.Relevant, 1)
	assert.Equal(t, 2, analysis.RiskFactors.DeferredCount)
}

func TestAnalyzeIgnoresIrrelevantHits(t *testing.T) {
	resp := &nvdResponse{
		Vulnerabilities: []nvdVulnerability{
			nvdRecord("CVE-2025-0001", "a flaw in some other product entirely", "HIGH", 7.5),
		},
	}

	analysis := Analyze("scantool", resp, testNow)

	assert.Empty(t, analysis.Relevant)
	assert.True(t, analysis.SafeToUse)
	assert.Equal(t, RecommendationSafe, analysis.Recommendation)
}

func TestRelevanceScore(t *testing.T) {
	assert.Equal(t, 3, relevanceScore("issue affecting scantool parser", "scantool"))
	assert.Equal(t, 8, relevanceScore("scantool vulnerability in scanning engine", "scantool"))
	assert.Equal(t, 1, relevanceScore("scantool used in an example demonstration", "scantool"))
	assert.Equal(t, 0, relevanceScore("unrelated example code", "scantool"))
}

func TestCompositeRiskScoreWeighting(t *testing.T) {
	relevant := []Vulnerability{
		{Severity: "critical", CVSSScore: 9.0, Year: testNow.Year(), RelevanceScore: 5},
		{Severity: "low", CVSSScore: 2.0, Year: 2015, RelevanceScore: 1},
	}

	// critical+recent+relevant weight 2.8, low old weight 1.0
	// (9.0*2.8 + 2.0*1.0) / 3.8 = 7.2 after rounding
	assert.InDelta(t, 7.2, compositeRiskScore(relevant, testNow), 0.001)
}

func TestPreferredVersionTable(t *testing.T) {
	assert.Equal(t, "7.95", PreferredVersion("nmap", nil, testNow))
	assert.Equal(t, "7.95", PreferredVersion("NMAP", nil, testNow))
	assert.Equal(t, "7.95", PreferredVersion("  Nmap  ", nil, testNow))
	assert.Equal(t, "2024.1.1.4", PreferredVersion("Burp Suite", nil, testNow))
}

func TestPreferredVersionPartialMatchPrefersLongestKey(t *testing.T) {
	// "john the ripper community edition" should match "john the ripper",
	// not the shorter "john".
	assert.Equal(t, "1.9.0", PreferredVersion("john the ripper community edition", nil, testNow))
}

func TestLongestMatchBreaksTiesAlphabetically(t *testing.T) {
	table := map[string]string{
		"alpha scan": "1.0",
		"bravo scan": "2.0",
	}

	// Both keys contain "scan" and have equal length; the result must be
	// the same on every lookup.
	for i := 0; i < 10; i++ {
		v, ok := longestMatch(table, "scan")
		assert.True(t, ok)
		assert.Equal(t, "1.0", v)
	}

	v, ok := longestMatch(table, "bravo scan pro")
	assert.True(t, ok)
	assert.Equal(t, "2.0", v)

	_, ok = longestMatch(table, "unrelated")
	assert.False(t, ok)
}

func TestPreferredVersionHeuristicByRecency(t *testing.T) {
	old := []Vulnerability{{Year: testNow.Year() - 5}}
	assert.Equal(t, "Latest Stable (Low Risk)", PreferredVersion("unknowntool", old, testNow))

	middling := []Vulnerability{{Year: testNow.Year() - 2}}
	assert.Equal(t, "Latest with Security Patches", PreferredVersion("unknowntool", middling, testNow))

	fresh := []Vulnerability{{Year: testNow.Year()}}
	assert.Equal(t, "Latest (Monitor for Updates)", PreferredVersion("unknowntool", fresh, testNow))
}

func TestFallbackAnalysisIsDegraded(t *testing.T) {
	analysis := FallbackAnalysis("nmap", testNow)

	assert.True(t, analysis.Degraded)
	assert.True(t, analysis.SafeToUse)
	assert.Equal(t, RecommendationSafe, analysis.Recommendation)
	assert.Len(t, analysis.Vulnerabilities, 2)
}

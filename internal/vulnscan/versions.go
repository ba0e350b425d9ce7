package vulnscan

import (
	"sort"
	"strings"
	"time"
)

// preferredVersions is a static advisory table of current releases for
// commonly requested tools. TODO: replace with a feed-backed source once the
// advisory import job lands.
var preferredVersions = map[string]string{
	// Security tools
	"nmap":            "7.95",
	"wireshark":       "4.2.2",
	"metasploit":      "6.4.5",
	"burp suite":      "2024.1.1.4",
	"burpsuite":       "2024.1.1.4",
	"burp":            "2024.1.1.4",
	"sqlmap":          "1.8.2",
	"nikto":           "2.5.0",
	"owasp zap":       "2.14.0",
	"zaproxy":         "2.14.0",
	"zap":             "2.14.0",
	"john":            "1.9.0",
	"john the ripper": "1.9.0",
	"hashcat":         "6.2.6",
	"aircrack-ng":     "1.7",
	"hydra":           "9.5",
	"gobuster":        "3.6.0",
	"dirb":            "2.22",
	"dirbuster":       "1.0-RC1",
	"ffuf":            "2.1.0",
	"nuclei":          "3.1.4",

	// Web servers and infrastructure
	"apache":   "2.4.58",
	"nginx":    "1.25.3",
	"tomcat":   "10.1.17",
	"iis":      "10.0",
	"lighttpd": "1.4.73",

	// Databases
	"mysql":      "8.3.0",
	"postgresql": "16.1",
	"mongodb":    "7.0.5",
	"redis":      "7.2.4",
	"sqlite":     "3.45.0",
	"mariadb":    "11.2.2",

	// Languages and runtimes
	"python":  "3.12.1",
	"node.js": "21.6.0",
	"nodejs":  "21.6.0",
	"node":    "21.6.0",
	"java":    "21.0.2",
	"php":     "8.3.2",
	"ruby":    "3.3.0",
	"go":      "1.21.6",
	"golang":  "1.21.6",
	"rust":    "1.75.0",

	// Containers and orchestration
	"docker":     "25.0.0",
	"kubernetes": "1.29.1",
	"kubectl":    "1.29.1",
	"helm":       "3.14.0",

	// CI/CD and devops
	"jenkins":   "2.440.1",
	"gitlab":    "16.8.1",
	"ansible":   "9.2.0",
	"terraform": "1.7.0",
	"vagrant":   "2.4.1",

	// TLS and crypto
	"openssl":   "3.2.0",
	"libressl":  "3.8.2",
	"boringssl": "latest",

	// Version control
	"git":       "2.43.0",
	"svn":       "1.14.3",
	"mercurial": "6.6.2",

	// Monitoring and logging
	"elasticsearch": "8.12.0",
	"logstash":      "8.12.0",
	"kibana":        "8.12.0",
	"grafana":       "10.3.1",
	"prometheus":    "2.49.1",

	// Content management
	"wordpress": "6.4.2",
	"drupal":    "10.2.2",
	"joomla":    "5.0.2",
}

// longestMatch finds the table entry whose key partially matches tool in
// either direction, preferring the longest key. Ties on length resolve to the
// lexicographically first key so lookups are stable across runs.
func longestMatch(table map[string]string, tool string) (string, bool) {
	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	bestMatch := ""
	for _, key := range keys {
		if strings.Contains(tool, key) || strings.Contains(key, tool) {
			if len(key) > len(bestMatch) {
				bestMatch = key
			}
		}
	}
	if bestMatch == "" {
		return "", false
	}
	return table[bestMatch], true
}

// PreferredVersion returns the recommended version for a tool. Known tools
// resolve through the advisory table (case-insensitive, longest partial match
// wins); otherwise the recommendation is derived from how recently the tool
// last had a relevant vulnerability.
func PreferredVersion(toolName string, relevant []Vulnerability, now time.Time) string {
	tool := strings.ToLower(strings.TrimSpace(toolName))

	if v, ok := preferredVersions[tool]; ok {
		return v
	}

	if v, ok := longestMatch(preferredVersions, tool); ok {
		return v
	}

	if len(relevant) > 0 {
		mostRecentYear := relevant[0].Year
		for _, cve := range relevant[1:] {
			if cve.Year > mostRecentYear {
				mostRecentYear = cve.Year
			}
		}
		yearsSince := now.Year() - mostRecentYear
		switch {
		case yearsSince >= 3:
			return "Latest Stable (Low Risk)"
		case yearsSince >= 1:
			return "Latest with Security Patches"
		default:
			return "Latest (Monitor for Updates)"
		}
	}

	return "Latest Stable Release"
}

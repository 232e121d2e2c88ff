package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"runtime"

	"layercheck/internal/report"
	"layercheck/internal/validate"
)

// SARIF 2.1.0 schema types
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html

// SARIFReport is the top-level SARIF document.
type SARIFReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool        SARIFTool         `json:"tool"`
	Results     []SARIFResult     `json:"results,omitempty"`
	Invocations []SARIFInvocation `json:"invocations,omitempty"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver describes the primary analysis component.
type SARIFDriver struct {
	Name            string      `json:"name"`
	Version         string      `json:"version,omitempty"`
	InformationURI  string      `json:"informationUri,omitempty"`
	Rules           []SARIFRule `json:"rules,omitempty"`
	SemanticVersion string      `json:"semanticVersion,omitempty"`
}

// SARIFRule describes a rule that detected an issue.
type SARIFRule struct {
	ID                   string                  `json:"id"`
	Name                 string                  `json:"name,omitempty"`
	ShortDescription     *SARIFMessage           `json:"shortDescription,omitempty"`
	FullDescription      *SARIFMessage           `json:"fullDescription,omitempty"`
	DefaultConfiguration *SARIFRuleConfiguration `json:"defaultConfiguration,omitempty"`
	Properties           map[string]interface{}  `json:"properties,omitempty"`
}

// SARIFRuleConfiguration describes the default configuration for a rule.
type SARIFRuleConfiguration struct {
	Level string `json:"level,omitempty"` // error, warning, note, none
}

// SARIFResult represents a single finding.
type SARIFResult struct {
	RuleID       string                 `json:"ruleId"`
	RuleIndex    int                    `json:"ruleIndex,omitempty"`
	Level        string                 `json:"level,omitempty"` // error, warning, note, none
	Message      SARIFMessage           `json:"message"`
	Locations    []SARIFLocation        `json:"locations,omitempty"`
	Fingerprints map[string]string      `json:"fingerprints,omitempty"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// SARIFMessage contains text in various formats.
type SARIFMessage struct {
	Text     string `json:"text,omitempty"`
	Markdown string `json:"markdown,omitempty"`
}

// SARIFLocation describes where a result was found.
type SARIFLocation struct {
	PhysicalLocation *SARIFPhysicalLocation `json:"physicalLocation,omitempty"`
}

// SARIFPhysicalLocation identifies a file and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation *SARIFArtifactLocation `json:"artifactLocation,omitempty"`
	Region           *SARIFRegion           `json:"region,omitempty"`
}

// SARIFArtifactLocation identifies a file.
type SARIFArtifactLocation struct {
	URI       string `json:"uri,omitempty"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

// SARIFRegion identifies a region within a file.
type SARIFRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

// SARIFInvocation describes a single invocation of the tool.
type SARIFInvocation struct {
	ExecutionSuccessful bool   `json:"executionSuccessful"`
	Machine             string `json:"machine,omitempty"`
}

// FormatResultAsSARIF converts a check result to SARIF format.
func FormatResultAsSARIF(result report.Result, version string) (string, error) {
	// Build rules from violations (deduplicated)
	ruleMap := make(map[string]SARIFRule)
	ruleIndex := make(map[string]int)

	for _, v := range result.Violations {
		ruleID := fmt.Sprintf("layercheck/%s/%s", string(v.Category), v.RuleName)
		if _, exists := ruleMap[ruleID]; !exists {
			rule := SARIFRule{
				ID:   ruleID,
				Name: v.RuleName,
				ShortDescription: &SARIFMessage{
					Text: ruleShortDescription(v.RuleName),
				},
				DefaultConfiguration: &SARIFRuleConfiguration{
					Level: severityToSARIFLevel(v.Severity),
				},
				Properties: map[string]interface{}{
					"tags": []string{"architecture", string(v.Category)},
				},
			}
			ruleIndex[ruleID] = len(ruleMap)
			ruleMap[ruleID] = rule
		}
	}

	// Convert map to slice in stable order
	rules := make([]SARIFRule, len(ruleMap))
	for id, rule := range ruleMap {
		rules[ruleIndex[id]] = rule
	}

	// Build results
	results := make([]SARIFResult, 0, len(result.Violations))
	for _, v := range result.Violations {
		ruleID := fmt.Sprintf("layercheck/%s/%s", string(v.Category), v.RuleName)

		sarifResult := SARIFResult{
			RuleID:    ruleID,
			RuleIndex: ruleIndex[ruleID],
			Level:     severityToSARIFLevel(v.Severity),
			Message: SARIFMessage{
				Text: v.Message,
			},
			Locations: []SARIFLocation{
				{
					PhysicalLocation: &SARIFPhysicalLocation{
						ArtifactLocation: &SARIFArtifactLocation{
							URI:       v.Location.File,
							URIBaseID: "%SRCROOT%",
						},
						Region: &SARIFRegion{
							StartLine: v.Location.Line,
						},
					},
				},
			},
			Fingerprints: map[string]string{
				"layercheck/v1": violationFingerprint(v),
			},
			Properties: map[string]interface{}{
				"subject":  v.Subject,
				"expected": v.Expected,
				"actual":   v.Actual,
			},
		}

		if v.Suggestion != "" {
			sarifResult.Properties["suggestion"] = v.Suggestion
		}

		results = append(results, sarifResult)
	}

	// Build the complete report
	sarifReport := SARIFReport{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []SARIFRun{
			{
				Tool: SARIFTool{
					Driver: SARIFDriver{
						Name:            "layercheck",
						Version:         version,
						SemanticVersion: version,
						Rules:           rules,
					},
				},
				Results: results,
				Invocations: []SARIFInvocation{
					{
						ExecutionSuccessful: true,
						Machine:             runtime.GOOS + "/" + runtime.GOARCH,
					},
				},
			},
		},
	}

	data, err := json.MarshalIndent(sarifReport, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal SARIF: %w", err)
	}
	return string(data), nil
}

// severityToSARIFLevel converts a violation severity to a SARIF level.
func severityToSARIFLevel(s validate.Severity) string {
	switch s {
	case validate.SeverityError:
		return "error"
	case validate.SeverityWarning:
		return "warning"
	case validate.SeverityInfo:
		return "note"
	default:
		return "warning"
	}
}

// ruleShortDescription returns a one-line description for a known rule.
func ruleShortDescription(rule string) string {
	switch rule {
	case "no_cycles":
		return "Circular dependency between functions or modules"
	case "layer_boundary":
		return "Call crosses a layer boundary the rules do not allow"
	default:
		return "Architecture rule violation"
	}
}

// violationFingerprint creates a stable fingerprint for deduplication.
func violationFingerprint(v validate.Violation) string {
	data := fmt.Sprintf("%s:%s", v.RuleName, v.Subject)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])[:16]
}

package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/civicresolve/backend/internal/models"
)

const generalDepartment = "Municipal Corporation - General"

var departments = map[string]string{
	"Roads":        "Public Works Department (PWD)",
	"Water":        "Water Supply & Sewerage Board",
	"Electricity":  "Electricity Distribution Company",
	"Sanitation":   "Municipal Sanitation Department",
	"Safety":       "Public Safety & Police Department",
	"Drainage":     "Drainage & Storm Water Department",
	"Streetlights": "Electrical Maintenance Division",
	"Parks":        "Horticulture & Parks Department",
}

func DepartmentFor(category string) string {
	if d, ok := departments[category]; ok {
		return d
	}
	return generalDepartment
}

// severityFor maps a priority to severity, score and resolution window.
// An empty priority is the default medium; unknown values are treated as low.
func severityFor(priority string) (string, int, string) {
	switch priority {
	case models.PriorityHigh:
		return "Critical", 9, "24-48 hours"
	case models.PriorityMedium, "":
		return "Moderate", 6, "3-5 days"
	default:
		return "Low", 3, "7-14 days"
	}
}

// Fallback is the deterministic rule-based analysis.
func Fallback(req AnalysisRequest) models.AIAnalysis {
	severity, score, resolution := severityFor(req.Priority)
	department := DepartmentFor(req.Category)

	place := req.Location
	if strings.TrimSpace(place) == "" {
		place = "the reported area"
	}
	locality := req.Location
	if strings.TrimSpace(locality) == "" {
		locality = "my locality"
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	category := req.Category
	if category == "" {
		category = models.DefaultCategory
	}

	return models.AIAnalysis{
		Severity:            severity,
		SeverityScore:       score,
		Department:          department,
		EstimatedResolution: resolution,
		Analysis: fmt.Sprintf("This %s issue titled %q in %s has been classified as %s priority and routed to %s.",
			strings.ToLower(category), req.Title, place, priority, department),
		SuggestedResponses: []string{
			fmt.Sprintf("I am writing to follow up regarding %s. Kindly take necessary action.", req.Title),
			fmt.Sprintf("Dear Authority, this issue needs attention at %s.", locality),
			"Please escalate if unresolved within timeline.",
		},
		Recommendations: []string{
			"Document issue with photos",
			"Note exact location",
			"Follow up regularly",
			"Share tracking ID with neighbours",
		},
	}
}

// parseAnalysis decodes a provider reply. Replies that are not JSON, or JSON
// without a severity and a 1-10 score, keep the raw text as the analysis with
// a moderate default classification.
func parseAnalysis(text string, req AnalysisRequest) models.AIAnalysis {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var a models.AIAnalysis
	if err := json.Unmarshal([]byte(cleaned), &a); err == nil && usable(a) {
		return a
	}
	return models.AIAnalysis{
		Severity:            "Moderate",
		SeverityScore:       5,
		Department:          DepartmentFor(req.Category),
		EstimatedResolution: "3-5 days",
		Analysis:            text,
		SuggestedResponses:  []string{"Please contact your local municipal office for assistance."},
		Recommendations:     []string{"Follow up if no response within expected timeline."},
	}
}

func usable(a models.AIAnalysis) bool {
	return strings.TrimSpace(a.Severity) != "" && a.SeverityScore >= 1 && a.SeverityScore <= 10
}

const systemPrompt = "You analyze civic issues and return structured JSON only."

func buildPrompt(req AnalysisRequest) string {
	location := req.Location
	if strings.TrimSpace(location) == "" {
		location = "Not specified"
	}
	return fmt.Sprintf(`You are an expert civic issue analyst.

Analyze this complaint and return ONLY valid JSON with these keys:
severity (string), severityScore (1-10), department (string), estimatedResolution (string),
analysis (string), suggestedResponses (3 strings), recommendations (4 strings).

Title: %s
Description: %s
Category: %s
Priority: %s
Location: %s
`, req.Title, req.Description, req.Category, req.Priority, location)
}

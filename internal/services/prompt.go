package services

import (
	"fmt"
	"strings"
)

// reportTypeDescriptions translates enum values into the phrasing the model
// sees. Unknown types fall through as opaque text.
var reportTypeDescriptions = map[string]string{
	"flooded_road":      "a flooded road or street",
	"dry_borehole":      "a dry or non-functioning borehole",
	"broken_kiosk":      "a broken or damaged water kiosk",
	"overflowing_river": "an overflowing river or stream",
}

const assessorSystemPrompt = `You are an environmental report analyst for AquaGuard Kenya, a water monitoring and flood alert system. Your role is to analyze community-submitted environmental reports and provide:
1. A confidence score (0-100) indicating how credible and actionable the report appears
2. A brief analysis explaining your assessment

Consider these factors:
- Weather conditions (if provided)
- Report type and description quality
- Geographic context (Kenya counties)
- Similar reports in the area (potential duplicates)
- Seasonal patterns and typical environmental conditions

Be objective and scientific in your assessment. Acknowledge uncertainty where appropriate.
Provide your response as valid JSON with "confidence_score" (integer 0-100) and "analysis" (string) fields.`

// describeReportType returns the descriptive phrasing for a report type,
// or the raw value when unrecognized.
func describeReportType(reportType string) string {
	if desc, ok := reportTypeDescriptions[reportType]; ok {
		return desc
	}
	return reportType
}

// buildUserPrompt renders the per-report assessment prompt. Optional context
// (town, description, weather) is omitted entirely when absent rather than
// substituted with defaults, so the model is not biased by fabricated values.
func buildUserPrompt(req *AnalyzeRequest, nearbyCount int, isDuplicate bool) string {
	var b strings.Builder

	b.WriteString("Analyze this environmental report:\n\n")
	fmt.Fprintf(&b, "Report Type: %s\n", describeReportType(req.ReportType))

	location := fmt.Sprintf("%s County, Kenya", req.CountyID)
	if req.TownName != nil && *req.TownName != "" {
		location = fmt.Sprintf("%s, %s", *req.TownName, location)
	}
	fmt.Fprintf(&b, "Location: %s\n", location)
	fmt.Fprintf(&b, "Coordinates: %.4f°, %.4f°\n", req.Latitude, req.Longitude)

	description := "No description provided"
	if req.Description != nil && *req.Description != "" {
		description = *req.Description
	}
	fmt.Fprintf(&b, "Description: %s\n", description)

	if req.Weather != nil {
		fmt.Fprintf(&b, "Current Weather: Temperature %g°C, Humidity %g%%, Rainfall (24h): %gmm\n",
			req.Weather.Temperature, req.Weather.Humidity, req.Weather.Rainfall24h)
	}

	fmt.Fprintf(&b, "Similar reports in area (24h): %d\n", nearbyCount)

	if isDuplicate {
		b.WriteString("Warning: potential duplicate detected within 500m radius\n")
	}

	b.WriteString("\nProvide a JSON response with confidence_score and analysis.")

	return b.String()
}

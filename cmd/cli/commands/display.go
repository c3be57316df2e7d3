package commands

import (
	"fmt"

	"github.com/halewood/schedulepulse/pkg/core/model"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorBold   = "\033[1m"
)

func scoreColor(score float64) string {
	switch {
	case score >= 80:
		return colorGreen
	case score >= 60:
		return colorYellow
	default:
		return colorRed
	}
}

func printScoreLine(label string, score float64) {
	fmt.Printf("%-26s %s%6.1f%s\n", label, scoreColor(score), score, colorReset)
}

func printHealthSummary(report *model.HealthReport) {
	fmt.Printf("\n%s📊 Schedule Health Report%s\n\n", colorBold, colorReset)
	fmt.Printf("Report ID:    %s\n", report.ID)
	fmt.Printf("Generated:    %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	composite := float64(report.HealthScore)
	fmt.Printf("%sHealth Score: %s%d%s\n\n", colorBold, scoreColor(composite), report.HealthScore, colorReset)

	printScoreLine("Service Level", report.Summary.ServiceLevel)
	printScoreLine("Fairness Index", report.Summary.FairnessIndex)
	printScoreLine("Preference Satisfaction", report.Summary.PreferenceSatisfaction)
	printScoreLine("Compliance Score", report.Summary.ComplianceScore)
	printScoreLine("Schedule Efficiency", report.Summary.ScheduleEfficiency)
	fmt.Println()

	fmt.Printf("Estimated ASA:       %.0fs\n", report.Summary.ASASeconds)
	fmt.Printf("Estimated Abandon:   %.1f%%\n", report.Summary.AbandonRate)
	fmt.Printf("Estimated Occupancy: %.1f%%\n\n", report.Summary.Occupancy)

	printCoverageHighlights(&report.Coverage)
	printViolations(&report.Compliance)
}

func printCoverageHighlights(cov *model.CoverageReport) {
	fmt.Printf("Intervals: %d total, %s%d understaffed%s, %s%d overstaffed%s\n\n",
		cov.TotalIntervals,
		colorRed, cov.UnderstaffedIntervals, colorReset,
		colorYellow, cov.OverstaffedIntervals, colorReset)

	if len(cov.BacklogRiskIntervals) == 0 {
		return
	}

	fmt.Printf("%s⚠️  Backlog Risk Intervals:%s\n", colorBold, colorReset)
	for _, risk := range cov.BacklogRiskIntervals {
		fmt.Printf("  • %s  required %.1f, staffed %.1f (short %.1f)\n",
			risk.Interval, risk.RequiredFTE, risk.StaffedFTE, risk.Deficit)
	}
	fmt.Println()
}

func printViolations(comp *model.ComplianceReport) {
	if len(comp.Violations) == 0 {
		fmt.Printf("%s✅ No compliance violations%s\n\n", colorGreen, colorReset)
		return
	}

	fmt.Printf("%s⚠️  Compliance Violations (%d):%s\n", colorBold, len(comp.Violations), colorReset)
	for _, v := range comp.Violations {
		name := v.AgentID
		if v.AgentName != "" {
			name = fmt.Sprintf("%s (%s)", v.AgentName, v.AgentID)
		}
		fmt.Printf("  • %s %s %s: %s\n", v.Date, name, v.Type, v.Detail)
	}
	fmt.Println()

	if len(comp.Recommendations) > 0 {
		fmt.Printf("%s💡 Recommendations:%s\n", colorBold, colorReset)
		for _, rec := range comp.Recommendations {
			fmt.Printf("  • %s\n", rec)
		}
		fmt.Println()
	}
}

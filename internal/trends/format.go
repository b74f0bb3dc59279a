package trends

import (
	"fmt"
	"strings"
)

// Format renders a Result as aligned terminal output.
func Format(r Result) string {
	if r.TotalRuns == 0 {
		if r.Project != "" {
			return fmt.Sprintf("recap trends --project %s\n\n  No runs found for project %q.\n", r.Project, r.Project)
		}
		return "recap trends\n\n  No runs found. Run `recap analyze` or `recap install` first.\n"
	}

	var b strings.Builder

	if r.Project != "" {
		fmt.Fprintf(&b, "recap trends --project %s\n", r.Project)
	} else {
		b.WriteString("recap trends\n")
	}

	// Overview
	fmt.Fprintf(&b, "\nOverview (%d runs, %d weeks)\n", r.TotalRuns, r.TotalWeeks)
	for _, m := range r.Metrics {
		arrow := directionArrow(m.Direction, m.DeltaPct)
		detail := ""
		if m.Direction != "stable" && m.DeltaPct != 0 {
			detail = fmt.Sprintf(" (%+.0f%%)", m.DeltaPct)
		}
		avgStr := formatMetricValue(m.Name, m.OverallAvg)
		fmt.Fprintf(&b, "  %-16s %8s avg  %s %s%s\n", m.Name, avgStr, arrow, m.Direction, detail)
	}

	// Per-metric week tables
	for _, m := range r.Metrics {
		if len(m.Points) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", metricTitle(m.Name))
		fmt.Fprintf(&b, "  %-10s %8s %8s\n", "Week", "Value", "Avg")
		for _, p := range m.Points {
			valStr := formatMetricValue(m.Name, p.Value)
			avgStr := ""
			if p.RollingAvg > 0 {
				avgStr = formatMetricValue(m.Name, p.RollingAvg)
			}
			marker := ""
			if p.Anomaly {
				if p.RollingAvg > 0 && p.Value > p.RollingAvg {
					marker = "  ^ spike"
				} else {
					marker = "  v dip"
				}
			}
			fmt.Fprintf(&b, "  %-10s %8s %8s%s\n", p.WeekLabel, valStr, avgStr, marker)
		}
	}

	var anomalies []string
	for _, m := range r.Metrics {
		for _, p := range m.Points {
			if p.Anomaly {
				kind := "spike"
				if p.RollingAvg > 0 && p.Value < p.RollingAvg {
					kind = "dip"
				}
				avgStr := formatMetricValue(m.Name, p.RollingAvg)
				valStr := formatMetricValue(m.Name, p.Value)
				anomalies = append(anomalies, fmt.Sprintf("  %-10s %-14s %s (avg %s)  %s",
					p.WeekLabel, m.Name, valStr, avgStr, kind))
			}
		}
	}
	if len(anomalies) > 0 {
		b.WriteString("\nAnomalies\n")
		for _, a := range anomalies {
			b.WriteString(a)
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// directionArrow follows the sign of the change, not its desirability.
func directionArrow(dir string, delta float64) string {
	switch {
	case dir == "stable":
		return "→"
	case delta > 0:
		return "↑"
	case delta < 0:
		return "↓"
	default:
		return "→"
	}
}

func metricTitle(name string) string {
	switch name {
	case "lines/run":
		return "Lines Changed per Run"
	case "files/run":
		return "Files Touched per Run"
	case "test share":
		return "Test Files (% of touched)"
	case "commits/run":
		return "Commits per Run"
	default:
		return name
	}
}

func formatMetricValue(metric string, val float64) string {
	switch metric {
	case "test share":
		return fmt.Sprintf("%d%%", int(val+0.5))
	case "files/run", "commits/run":
		return fmt.Sprintf("%.1f", val)
	default:
		return formatLines(int(val + 0.5))
	}
}

// formatLines formats a line count for display.
func formatLines(n int) string {
	if n < 0 {
		return "0"
	}
	if n >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	}
	if n >= 10_000 {
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return formatInt(n)
}

// formatInt formats an integer with comma separators.
func formatInt(n int) string {
	if n < 0 {
		return "0"
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

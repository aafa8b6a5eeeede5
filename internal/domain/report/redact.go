package report

// upsellSteps is the fixed next-steps block shown to unentitled requesters.
// Always exactly 3 items regardless of the original list length.
func upsellSteps() []NextStep {
	return []NextStep{
		{
			Title:       "Unlock your full plan",
			Description: "The complete roadmap includes every recommended period through application season, tailored to this profile.",
			Priority:    "high",
		},
		{
			Title:       "See all recommended programs",
			Description: "Summer programs, competitions, and coursework picks are part of the full report.",
			Priority:    "medium",
		},
		{
			Title:       "Download the PDF",
			Description: "Paid plans include a printable PDF of the entire application timeline.",
			Priority:    "medium",
		},
	}
}

// Redact derives the limited view served without a valid entitlement.
// Pure function of the full content: the retained timeline is always the
// earliest floor(n/2) periods in original order (timelines are chronological,
// so a truncated prefix stays internally coherent), and nextSteps is always
// the fixed upsell set. Callers apply this to stored full content only,
// never to its own output.
func Redact(full ReportContent) ReportContent {
	keep := len(full.Timeline) / 2
	out := ReportContent{
		Overview:  full.Overview,
		NextSteps: upsellSteps(),
	}
	if keep > 0 {
		out.Timeline = append([]TimelinePeriod(nil), full.Timeline[:keep]...)
	}
	return out
}

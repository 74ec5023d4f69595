package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"labstats/internal/domain"
)

// FormatValue renders a measure with three decimals, NaN as "NaN".
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// WriteText writes the statistics block of report, or the waiting notice below the gate.
func WriteText(w io.Writer, report domain.Report, labels domain.Labels) error {
	if !report.Ready {
		_, err := fmt.Fprintf(w, "%d measurements recorded; enter at least %d to enable analysis (%d more needed).\n",
			report.Count, domain.MinimumForAnalysis, report.Remaining)
		return err
	}

	if _, err := fmt.Fprintf(w, "%d measurements recorded.\n", report.Count); err != nil {
		return err
	}
	for _, channel := range report.Statistics {
		if _, err := fmt.Fprintf(w, "\n%s\n", labels.Channel(channel.Channel)); err != nil {
			return err
		}
		for _, measure := range channel.Stats.Measures() {
			if _, err := fmt.Fprintf(w, "- %s: %s\n", labels.Measure(measure.Name), FormatValue(measure.Value)); err != nil {
				return err
			}
		}
	}
	return nil
}

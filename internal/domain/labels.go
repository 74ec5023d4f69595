package domain

import (
	"fmt"
	"strings"
)

// Labels holds the display names used by renderers and exporters.
type Labels struct {
	Locale   string
	channels map[Channel]string
	measures map[string]string
}

var labelSets = map[string]Labels{
	"en": {
		Locale: "en",
		channels: map[Channel]string{
			ChannelDrainedWeight: "drainedWeight",
			ChannelDryWeight:     "dryWeight",
		},
	},
	"de": {
		Locale: "de",
		channels: map[Channel]string{
			ChannelDrainedWeight: "Abtropfgewicht",
			ChannelDryWeight:     "Trockengewicht",
		},
		measures: map[string]string{
			"Mean":              "Mittelwert",
			"Median":            "Median",
			"StandardDeviation": "Standardabweichung",
			"Variance":          "Varianz",
			"Min":               "Min",
			"Max":               "Max",
			"Range":             "Spannweite",
			"IndexOfDispersion": "Index of Dispersion",
		},
	},
}

// LabelsFor returns the label set of locale ("en" or "de").
func LabelsFor(locale string) (Labels, error) {
	labels, ok := labelSets[strings.ToLower(strings.TrimSpace(locale))]
	if !ok {
		return Labels{}, fmt.Errorf("unsupported label locale %q", locale)
	}
	return labels, nil
}

// DefaultLabels returns the English label set.
func DefaultLabels() Labels {
	return labelSets["en"]
}

// Channel returns the display name of channel.
func (l Labels) Channel(channel Channel) string {
	if name, ok := l.channels[channel]; ok {
		return name
	}
	return string(channel)
}

// Measure returns the display name of a measure.
func (l Labels) Measure(name string) string {
	if label, ok := l.measures[name]; ok {
		return label
	}
	return name
}

// Header returns the column labels of the export table.
func (l Labels) Header() []string {
	header := make([]string, len(Channels))
	for i, channel := range Channels {
		header[i] = l.Channel(channel)
	}
	return header
}

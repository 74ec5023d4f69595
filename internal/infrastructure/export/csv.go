// Package export serializes measurement snapshots to CSV and XLSX tables.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"labstats/internal/domain"
)

// WriteCSV writes the header row and one row per measurement in snapshot order.
func WriteCSV(w io.Writer, snapshot []domain.Measurement, labels domain.Labels) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(labels.Header()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i, m := range snapshot {
		record := []string{formatWeight(m.DrainedWeight), formatWeight(m.DryWeight)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSV materializes the CSV export of snapshot.
func CSV(snapshot []domain.Measurement, labels domain.Labels) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, snapshot, labels); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadCSV parses a two-column table. The first row is a header unless both of
// its fields are weights, in which case it is data. Every row is validated
// before any is returned; the first invalid row fails the whole read.
// The delimiter is "," or ";", detected from the first row.
func ReadCSV(r io.Reader) ([]domain.Measurement, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: csv has no header row", domain.ErrValidation)
	}

	first := 1
	if isDataRow(records[0]) {
		first = 0
	}

	measurements := make([]domain.Measurement, 0, len(records)-first)
	for i := first; i < len(records); i++ {
		m, err := ParseMeasurement(records[i][0], records[i][1])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		measurements = append(measurements, m)
	}
	return measurements, nil
}

func isDataRow(record []string) bool {
	for _, field := range record {
		if _, err := ParseWeight(field); err != nil {
			return false
		}
	}
	return true
}

// ParseMeasurement parses two weights as entered by a user.
func ParseMeasurement(drained, dry string) (domain.Measurement, error) {
	drainedValue, err := ParseWeight(drained)
	if err != nil {
		return domain.Measurement{}, fmt.Errorf("%s: %w", domain.ChannelDrainedWeight, err)
	}
	dryValue, err := ParseWeight(dry)
	if err != nil {
		return domain.Measurement{}, fmt.Errorf("%s: %w", domain.ChannelDryWeight, err)
	}
	return domain.NewMeasurement(drainedValue, dryValue)
}

// ParseWeight accepts "12.5" and "12,5".
func ParseWeight(raw string) (float64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, fmt.Errorf("%w: value is required", domain.ErrValidation)
	}
	if strings.Count(value, ",") == 1 && !strings.Contains(value, ".") {
		value = strings.Replace(value, ",", ".", 1)
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return 0, fmt.Errorf("%w: %q is not a number: %v", domain.ErrValidation, raw, err)
	}
	return parsed, nil
}

func formatWeight(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func detectDelimiter(data []byte) rune {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Contains(line, []byte(";")) {
		return ';'
	}
	return ','
}

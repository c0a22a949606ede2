// Package parser turns raw CSV or XML sweep exports into normalized sweeps.
//
// Points whose frequency or magnitude cannot be read are dropped silently.
// A missing phase is normalized to 0. Noise injection is opt-in and seeded.
package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/RMahshie/fra-analyzer/pkg/models"
)

// Format identifies a sweep file encoding
type Format string

const (
	FormatCSV Format = "csv"
	FormatXML Format = "xml"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported sweep format")
	ErrInvalidXML        = errors.New("invalid XML")
	ErrTooManyPoints     = errors.New("sweep has too many points")
)

// Options control normalization
type Options struct {
	// Noise, when set, perturbs every parsed point. Off by default.
	Noise *Noise
	// MaxPoints bounds the sweep length; zero means unbounded.
	MaxPoints int
}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXML:
		return FormatXML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// DetectFormat infers the format from a file name, falling back to the
// content type.
func DetectFormat(fileName, contentType string) (Format, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xml":
		return FormatXML, nil
	}

	ct := strings.ToLower(contentType)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	switch strings.TrimSpace(ct) {
	case "text/csv", "text/plain":
		return FormatCSV, nil
	case "application/xml", "text/xml":
		return FormatXML, nil
	}

	return "", fmt.Errorf("%w: cannot detect format of %q (%s)", ErrUnsupportedFormat, fileName, contentType)
}

// Parse reads a sweep in the given format.
func Parse(r io.Reader, format Format, opts Options) (models.Sweep, error) {
	var (
		sweep models.Sweep
		err   error
	)

	switch format {
	case FormatCSV:
		sweep, err = parseCSV(r)
	case FormatXML:
		sweep, err = parseXML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	if opts.MaxPoints > 0 && len(sweep) > opts.MaxPoints {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyPoints, len(sweep), opts.MaxPoints)
	}

	if opts.Noise != nil {
		opts.Noise.Apply(sweep)
	}

	return sweep, nil
}

// newPoint builds a point from raw text fields, reporting false when the
// frequency or magnitude is unusable.
func newPoint(rawFreq, rawMag, rawPhase string) (models.SweepPoint, bool) {
	freq, ok := parseNumber(rawFreq)
	if !ok || freq < 0 {
		return models.SweepPoint{}, false
	}
	mag, ok := parseNumber(rawMag)
	if !ok {
		return models.SweepPoint{}, false
	}

	phase, ok := parseNumber(rawPhase)
	if !ok {
		phase = 0
	}

	return models.SweepPoint{
		Frequency: freq,
		Magnitude: mag,
		Phase:     models.Float64(phase),
	}, true
}

// FromJSON converts a decoded JSON array of point objects into a sweep. It
// reports false when v is not an array. Elements that are not objects or lack
// a usable frequency or magnitude are dropped.
func FromJSON(v any) (models.Sweep, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}

	sweep := make(models.Sweep, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if p, ok := newPoint(jsonText(obj["frequency"]), jsonText(obj["magnitude"]), jsonText(obj["phase"])); ok {
			sweep = append(sweep, p)
		}
	}
	return sweep, true
}

// jsonText renders a decoded JSON scalar the way it would appear in a file.
// Anything else becomes "" and fails parseNumber.
func jsonText(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case json.Number:
		return x.String()
	case string:
		return x
	}
	return ""
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// SniffFormat guesses the format from the payload itself: a leading '<'
// means XML, anything else is read as CSV.
func SniffFormat(data []byte) Format {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '<' {
		return FormatXML
	}
	return FormatCSV
}

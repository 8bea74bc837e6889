package settings

import (
	"slices"
	"sort"
)

// Overrides holds a partial ScanSettings. Nil fields keep the value they are
// merged onto. It is the shape used for both the [scan] config section and
// the persisted settings row.
type Overrides struct {
	BatchSize          *int    `json:"batch_size,omitempty" toml:"batch_size,omitempty"`
	HTTPTimeoutSeconds *int    `json:"http_timeout,omitempty" toml:"http_timeout,omitempty"`
	BrokenStatusCodes  []int   `json:"error_codes,omitempty" toml:"error_codes,omitempty"`
	AutoScanEnabled    *bool   `json:"auto_scan_enabled,omitempty" toml:"auto_scan_enabled,omitempty"`
	Frequency          *string `json:"scan_frequency,omitempty" toml:"scan_frequency,omitempty"`
	LoggingEnabled     *bool   `json:"log_enabled,omitempty" toml:"log_enabled,omitempty"`
}

// IsZero reports whether no field is set.
func (o Overrides) IsZero() bool {
	return o.BatchSize == nil && o.HTTPTimeoutSeconds == nil && len(o.BrokenStatusCodes) == 0 &&
		o.AutoScanEnabled == nil && o.Frequency == nil && o.LoggingEnabled == nil
}

// OverridesFrom captures every field of s so it can be persisted wholesale.
func OverridesFrom(s ScanSettings) Overrides {
	batch := s.BatchSize
	timeout := s.HTTPTimeoutSeconds
	auto := s.AutoScanEnabled
	freq := string(s.Frequency)
	logging := s.LoggingEnabled
	return Overrides{
		BatchSize:          &batch,
		HTTPTimeoutSeconds: &timeout,
		BrokenStatusCodes:  slices.Clone(s.BrokenStatusCodes),
		AutoScanEnabled:    &auto,
		Frequency:          &freq,
		LoggingEnabled:     &logging,
	}
}

// Merge applies o on top of base. Out-of-range numbers are clamped, unknown
// frequencies and empty code sets fall back to base, so a damaged persisted
// row can never produce an unusable policy.
func Merge(base ScanSettings, o Overrides) ScanSettings {
	out := base
	out.BrokenStatusCodes = slices.Clone(base.BrokenStatusCodes)

	if o.BatchSize != nil {
		out.BatchSize = clamp(*o.BatchSize, MinBatchSize, MaxBatchSize)
	}
	if o.HTTPTimeoutSeconds != nil {
		out.HTTPTimeoutSeconds = clamp(*o.HTTPTimeoutSeconds, MinHTTPTimeout, MaxHTTPTimeout)
	}
	if codes := normalizeCodes(o.BrokenStatusCodes); len(codes) > 0 {
		out.BrokenStatusCodes = codes
	}
	if o.AutoScanEnabled != nil {
		out.AutoScanEnabled = *o.AutoScanEnabled
	}
	if o.Frequency != nil {
		if f, err := ParseFrequency(*o.Frequency); err == nil {
			out.Frequency = f
		}
	}
	if o.LoggingEnabled != nil {
		out.LoggingEnabled = *o.LoggingEnabled
	}
	return out
}

// Resolve merges every layer in order onto Defaults.
func Resolve(layers ...Overrides) ScanSettings {
	out := Defaults()
	for _, layer := range layers {
		out = Merge(out, layer)
	}
	return out
}

func normalizeCodes(codes []int) []int {
	if len(codes) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(codes))
	out := make([]int, 0, len(codes))
	for _, code := range codes {
		if code < 100 || code > 599 {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	sort.Ints(out)
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

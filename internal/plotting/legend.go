package plotting

import (
	"path/filepath"
	"strings"
)

// LegendStrategy derives a legend label from a file name
type LegendStrategy interface {
	Legend(name string) string
}

// DefaultLegend assumes names shaped like prefix + 4-character ID + ".txt"
var DefaultLegend LegendStrategy = SuffixID{IDLen: 4, ExtLen: 4}

// SuffixID takes the IDLen characters that precede a fixed-length extension
// of ExtLen characters (including the dot). Names too short for that shape
// fall back to Stem.
type SuffixID struct {
	IDLen  int
	ExtLen int
}

func (s SuffixID) Legend(name string) string {
	base := []rune(filepath.Base(name))
	if s.IDLen <= 0 || len(base) < s.IDLen+s.ExtLen {
		return Stem{}.Legend(name)
	}
	end := len(base) - s.ExtLen
	return string(base[end-s.IDLen : end])
}

// Stem uses the file name without directory or extension
type Stem struct{}

func (Stem) Legend(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Trim strips a known prefix and suffix from the file name
type Trim struct {
	Prefix string
	Suffix string
}

func (t Trim) Legend(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(strings.TrimPrefix(base, t.Prefix), t.Suffix)
}

// Legends resolves the labels for a list of file names. Explicit labels win
// and must match the name count; otherwise the strategy (or DefaultLegend) is applied.
func Legends(names, explicit []string, strategy LegendStrategy) ([]string, bool) {
	if len(explicit) > 0 {
		if len(explicit) != len(names) {
			return nil, false
		}
		return explicit, true
	}
	if strategy == nil {
		strategy = DefaultLegend
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strategy.Legend(n)
	}
	return out, true
}

// ParseLegendStrategy maps a config/flag value to a strategy: "id" (default), "stem" or "name"
func ParseLegendStrategy(value string) LegendStrategy {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "stem":
		return Stem{}
	case "name":
		return Trim{}
	default:
		return DefaultLegend
	}
}

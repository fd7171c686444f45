package manifest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var isoDurationPattern = regexp.MustCompile(`^(-)?P(\d+)DT(\d+)H(\d+)M(\d+)(?:\.(\d{1,9}))?S$`)

// FormatDuration renders d as P{days}DT{h}H{m}M{s}.{us}S.
func FormatDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	d = d.Truncate(time.Microsecond)

	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	d -= seconds * time.Second
	micros := d / time.Microsecond

	return fmt.Sprintf("%sP%dDT%dH%dM%d.%06dS", sign, days, hours, minutes, seconds, micros)
}

// ParseDuration parses the form produced by FormatDuration.
func ParseDuration(s string) (time.Duration, error) {
	m := isoDurationPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("manifest: invalid duration %q", s)
	}

	var total time.Duration
	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second}
	for i, unit := range units {
		n, err := strconv.ParseInt(m[i+2], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("manifest: invalid duration %q: %w", s, err)
		}
		total += time.Duration(n) * unit
	}
	if frac := m[6]; frac != "" {
		frac += strings.Repeat("0", 9-len(frac))
		ns, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("manifest: invalid duration %q: %w", s, err)
		}
		total += time.Duration(ns)
	}
	if m[1] == "-" {
		total = -total
	}
	return total, nil
}

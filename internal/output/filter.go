package output

import (
	"strings"

	"github.com/atikulmunna/piqlog/internal/model"
)

// LevelFilter selects entries by severity letter. An empty filter passes
// everything; "-" selects entries without a level.
type LevelFilter map[string]bool

// ParseLevels builds a filter from a comma-separated list such as "E,F".
func ParseLevels(s string) LevelFilter {
	f := make(LevelFilter)
	for _, l := range strings.Split(s, ",") {
		l = strings.ToUpper(strings.TrimSpace(l))
		if l != "" {
			f[l] = true
		}
	}
	return f
}

// Allow returns true if the entry passes the filter.
func (f LevelFilter) Allow(entry model.Entry) bool {
	if len(f) == 0 {
		return true // no filter = show all
	}
	return f[entry.Summary.LogLevel.String()]
}

package aggregator

import (
	"sort"
	"sync"
	"time"

	"github.com/atikulmunna/piqlog/internal/scan"
)

// FileStats describes the latest scan of one log file.
type FileStats struct {
	Source           string           `json:"source"`
	Lines            int              `json:"lines"`
	Entries          int              `json:"entries"`
	LevelCounts      map[string]int64 `json:"level_counts"`
	MetadataComplete bool             `json:"metadata_complete"`
	Firmware         string           `json:"firmware"`
	Error            string           `json:"error,omitempty"`
	ScannedAt        time.Time        `json:"scanned_at"`
}

// Stats holds a point-in-time snapshot of aggregated metrics.
type Stats struct {
	Uptime         string           `json:"uptime"`
	FilesScanned   int              `json:"files_scanned"`
	FilesFailed    int              `json:"files_failed"`
	LinesScanned   int64            `json:"lines_scanned"`
	TotalEntries   int64            `json:"total_entries"`
	LevelCounts    map[string]int64 `json:"level_counts"`
	DroppedEntries int64            `json:"dropped_entries"`
	Files          []FileStats      `json:"files"`
}

// Aggregator keeps the latest scan result per file. A re-scan of a file
// replaces its previous numbers.
type Aggregator struct {
	mu        sync.RWMutex
	startTime time.Time
	files     map[string]FileStats
	dropped   func() int64
}

// New creates an Aggregator. droppedFn reports entries lost to slow
// consumers; it may be nil.
func New(droppedFn func() int64) *Aggregator {
	if droppedFn == nil {
		droppedFn = func() int64 { return 0 }
	}
	return &Aggregator{
		startTime: time.Now(),
		files:     make(map[string]FileStats),
		dropped:   droppedFn,
	}
}

// Record stores the outcome of a successful scan.
func (a *Aggregator) Record(rep *scan.Report) {
	fs := FileStats{
		Source:           rep.Source,
		Lines:            rep.Lines,
		Entries:          len(rep.Entries),
		LevelCounts:      make(map[string]int64),
		MetadataComplete: rep.Metadata.Complete(),
		Firmware:         rep.Metadata.Firmware.String(),
		ScannedAt:        time.Now(),
	}
	for _, e := range rep.Entries {
		fs.LevelCounts[e.Summary.LogLevel.String()]++
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.files[rep.Source] = fs
}

// Fail records a file whose scan failed, dropping any earlier result for it.
func (a *Aggregator) Fail(path string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.files[path] = FileStats{
		Source:      path,
		LevelCounts: map[string]int64{},
		Error:       err.Error(),
		ScannedAt:   time.Now(),
	}
}

// Snapshot returns the current metrics, files sorted by path.
func (a *Aggregator) Snapshot() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	st := Stats{
		Uptime:         time.Since(a.startTime).Truncate(time.Second).String(),
		LevelCounts:    make(map[string]int64),
		DroppedEntries: a.dropped(),
		Files:          make([]FileStats, 0, len(a.files)),
	}

	for _, fs := range a.files {
		if fs.Error != "" {
			st.FilesFailed++
		} else {
			st.FilesScanned++
		}
		st.LinesScanned += int64(fs.Lines)
		st.TotalEntries += int64(fs.Entries)

		// Copy level counts.
		counts := make(map[string]int64, len(fs.LevelCounts))
		for k, v := range fs.LevelCounts {
			counts[k] = v
			st.LevelCounts[k] += v
		}
		fs.LevelCounts = counts
		st.Files = append(st.Files, fs)
	}

	sort.Slice(st.Files, func(i, j int) bool { return st.Files[i].Source < st.Files[j].Source })
	return st
}

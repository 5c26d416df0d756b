package output

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/atikulmunna/piqlog/internal/aggregator"
)

var statLevels = []string{"D", "I", "W", "E", "F", "-"}

// WriteStats renders one row per scanned file plus a total row.
func WriteStats(w io.Writer, st aggregator.Stats) error {
	table := tablewriter.NewWriter(w)
	table.Header("File", "Lines", "Entries", "D", "I", "W", "E", "F", "-", "Metadata", "Firmware")

	for _, fs := range st.Files {
		if fs.Error != "" {
			if err := table.Append([]string{fs.Source, "", "", "", "", "", "", "", "", "error", fs.Error}); err != nil {
				return err
			}
			continue
		}
		row := []string{fs.Source, strconv.Itoa(fs.Lines), strconv.Itoa(fs.Entries)}
		for _, l := range statLevels {
			row = append(row, strconv.FormatInt(fs.LevelCounts[l], 10))
		}
		meta := "partial"
		if fs.MetadataComplete {
			meta = "complete"
		}
		row = append(row, meta, fs.Firmware)
		if err := table.Append(row); err != nil {
			return err
		}
	}

	total := []string{"TOTAL", strconv.FormatInt(st.LinesScanned, 10), strconv.FormatInt(st.TotalEntries, 10)}
	for _, l := range statLevels {
		total = append(total, strconv.FormatInt(st.LevelCounts[l], 10))
	}
	total = append(total, "", "")
	if err := table.Append(total); err != nil {
		return err
	}

	return table.Render()
}

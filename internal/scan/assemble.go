package scan

import "github.com/atikulmunna/piqlog/internal/model"

// Assemble pairs every summary with the session identifiers and the metadata
// as it stood once the whole file was scanned. Order is preserved.
//
// Early summaries therefore carry markers that only appear later in the file.
func Assemble(session model.Session, meta model.SessionMetadata, summaries []model.Summary) []model.Entry {
	entries := make([]model.Entry, 0, len(summaries))
	for _, s := range summaries {
		entries = append(entries, model.Entry{
			LogID:        session.LogID,
			LogCycle:     session.Cycle,
			OTA:          meta.Firmware,
			PiQVersion:   meta.Software,
			OemFlavor:    meta.OemFlavor,
			DeviceFlavor: meta.DeviceFlavor,
			Ticket:       session.Ticket,
			Summary:      s,
		})
	}
	return entries
}

package model

// LogPathEntry is one configured active log file to monitor.
type LogPathEntry struct {
	Path   string `json:"path"`
	Source string `json:"-"` // loader name (e.g. "jsonfile", "args")
}

// Package logrotate rotates size-triggered log file families in place.
//
// Quick start:
//
//	r, err := logrotate.New(logrotate.WithMaxEntries(5))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := r.Rotate(ctx, "/var/log/app/app.log")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.Rotated)
//
// A family is the active log (app.log) and its numbered backups (app.0,
// app.1, ...). Rotation deletes the oldest backup, copies every other
// backup one stage down, copies the active log to .0 and truncates it.
// Files are only touched when the active log is larger than the
// threshold (250 KB by default, 1 KB = 1000 bytes).
//
// A Rotator is not safe for concurrent use on the same files; callers
// serialize runs.
package logrotate

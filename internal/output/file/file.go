package file

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/crimson-sun/logrotate/internal/model"
	"github.com/crimson-sun/logrotate/internal/output"
)

const defaultBufSize = 64 * 1024 // 64KB

// Rotator shifts a log family one stage down the chain, truncating the head.
// *engine.Engine satisfies it.
type Rotator interface {
	RotateFamily(ctx context.Context, path string) (model.Outcome, error)
}

// Option configures a file Output.
type Option func(*Output)

// WithMaxSize sets the file size (bytes) at which the report file rotates
// through r. 0 (default) disables rotation.
func WithMaxSize(bytes int64, r Rotator) Option {
	return func(o *Output) {
		o.maxSize = bytes
		o.rotator = r
	}
}

// Output appends NDJSON outcomes to a report file with buffered I/O and
// optional size-based rotation.
type Output struct {
	w         *bufio.Writer
	f         *os.File
	mu        sync.Mutex
	path      string
	verbosity output.Verbosity
	maxSize   int64 // 0 = no rotation
	rotator   Rotator
	written   int64
}

// New creates a file output that writes NDJSON to the given path.
// When rotation is enabled the path must carry the ".log" head extension
// so the report file forms a rotatable family of its own.
func New(path string, verbosity output.Verbosity, opts ...Option) (*Output, error) {
	o := &Output{
		path:      path,
		verbosity: verbosity,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.maxSize > 0 {
		if o.rotator == nil {
			return nil, fmt.Errorf("file output: rotation enabled without a rotator")
		}
		if filepath.Ext(path) != "."+model.HeadExt {
			return nil, fmt.Errorf("file output: rotated report %s must end in .%s", path, model.HeadExt)
		}
	}
	if err := o.openFile(); err != nil {
		return nil, err
	}
	return o, nil
}

// Write JSON-encodes the outcome and appends it as a line to the file.
func (o *Output) Write(ctx context.Context, outcome model.Outcome) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	formatted := output.FormatOutcome(outcome, o.verbosity)
	data, err := json.Marshal(formatted)
	if err != nil {
		return fmt.Errorf("file output: marshal: %w", err)
	}
	data = append(data, '\n')

	if o.maxSize > 0 && o.written > 0 && o.written+int64(len(data)) > o.maxSize {
		if err := o.rotate(ctx); err != nil {
			return fmt.Errorf("file output: rotate: %w", err)
		}
	}

	n, err := o.w.Write(data)
	o.written += int64(n)
	if err != nil {
		return fmt.Errorf("file output: write: %w", err)
	}
	return nil
}

// Close flushes the buffer and closes the file.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.w.Flush(); err != nil {
		o.f.Close()
		return fmt.Errorf("file output: flush: %w", err)
	}
	return o.f.Close()
}

// openFile opens (or creates) the output file and wraps it in a bufio.Writer.
func (o *Output) openFile() error {
	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("file output: open %s: %w", o.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("file output: stat %s: %w", o.path, err)
	}
	o.f = f
	o.w = bufio.NewWriterSize(f, defaultBufSize)
	o.written = info.Size()
	return nil
}

// rotate flushes and closes the current file, hands the family to the
// rotator (head copied to stage 0 and truncated) and reopens the head.
func (o *Output) rotate(ctx context.Context) error {
	if err := o.w.Flush(); err != nil {
		return err
	}
	if err := o.f.Close(); err != nil {
		return err
	}
	if _, err := o.rotator.RotateFamily(ctx, o.path); err != nil {
		// Reopen regardless so later writes still land somewhere.
		if openErr := o.openFile(); openErr != nil {
			return openErr
		}
		return err
	}
	return o.openFile()
}

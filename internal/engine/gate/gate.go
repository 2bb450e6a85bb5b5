// Package gate decides whether a monitored log file is large enough to rotate.
package gate

import (
	"errors"
	"fmt"
	"os"

	"github.com/crimson-sun/logrotate/internal/model"
)

// DefaultThresholdKB is the size a file must exceed before it is rotated.
const DefaultThresholdKB = 250

// bytesPerKB matches the decimal kilobytes the threshold has always used.
const bytesPerKB = 1000

// statFunc is swapped in tests to simulate permission errors and races.
var statFunc = os.Stat

// Decision is the result of a size check.
type Decision struct {
	Eligible bool
	SizeKB   int64
}

// Gate compares file sizes against a threshold in kilobytes.
type Gate struct {
	ThresholdKB int64
}

// New creates a Gate. A negative threshold falls back to DefaultThresholdKB.
func New(thresholdKB int64) *Gate {
	if thresholdKB < 0 {
		thresholdKB = DefaultThresholdKB
	}
	return &Gate{ThresholdKB: thresholdKB}
}

// Exists reports whether path names an existing filesystem entry.
func (g *Gate) Exists(path string) bool {
	_, err := statFunc(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// Check reads the file's metadata and reports whether its size in whole
// kilobytes exceeds the threshold.
func (g *Gate) Check(path string) (Decision, error) {
	info, err := statFunc(path)
	if err != nil {
		return Decision{}, model.NewError(model.KindMetadataUnavailable, path, err)
	}
	if !info.Mode().IsRegular() {
		return Decision{}, model.NewError(model.KindMetadataUnavailable, path,
			fmt.Errorf("not a regular file (%s)", info.Mode().Type()))
	}

	kb := info.Size() / bytesPerKB
	return Decision{Eligible: kb > g.ThresholdKB, SizeKB: kb}, nil
}

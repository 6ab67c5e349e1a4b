// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stale implements the incremental-build dependency rule shared by
// every stage: an output is rebuilt iff it is missing or strictly older
// than any of its declared inputs. See docs/ARCHITECTURE § Staleness.
package stale

import (
	"fmt"
	"os"
	"time"
)

// Stale reports whether output must be rebuilt from inputs. It returns true
// when output does not exist, or when its modification time is strictly
// earlier than the modification time of any input. A missing or unreadable
// input is a fatal error: the caller has a broken dependency, not a stale
// artifact.
func Stale(output string, inputs ...string) (bool, error) {
	times := make([]time.Time, len(inputs))
	for i, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return false, fmt.Errorf("stat input %s: %w", in, err)
		}
		times[i] = info.ModTime()
	}

	out, err := os.Stat(output)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat output %s: %w", output, err)
	}

	for _, t := range times {
		if out.ModTime().Before(t) {
			return true, nil
		}
	}
	return false, nil
}

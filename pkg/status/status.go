// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"sort"
	"sync"
)

// 📊 Outcome is the per-file result of a pass
type Outcome int

const (
	OutcomeUnknown     Outcome = iota
	OutcomeUpdated             // content changed and was written
	OutcomeUnchanged           // nothing to do, file untouched
	OutcomeSkipped             // left untouched for a reported reason
	OutcomeMissingFile         // requested path does not exist
	OutcomeFailed              // read or write failed
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeUpdated:
		return "updated"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeMissingFile:
		return "missing-file"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 🏷️ Reason explains a skip or a failure
type Reason string

const (
	ReasonAnchorNotFound    Reason = "anchor-not-found"
	ReasonAmbiguousAnchor   Reason = "ambiguous-anchor"
	ReasonUnsupportedTarget Reason = "unsupported-target"
	ReasonOverlappingEdit   Reason = "overlapping-edit"
	ReasonReadFailure       Reason = "read-failure"
	ReasonWriteFailure      Reason = "write-failure"
)

// ⏭️ Skip records one edit, or a whole file, that was not applied
type Skip struct {
	Reason Reason
	Rule   string // transformation name
	Anchor string // anchor label, for "Could not find <anchor>"
	Err    error
}

// 📄 FileResult is what happened to one file in one pass
type FileResult struct {
	Pass    string
	Path    string
	Name    string // logical target name
	Outcome Outcome
	Edits   int    // edits applied
	Skips   []Skip // edits not applied; a file can be updated and still carry skips
	Diff    string // set on dry runs
	Err     error  // read or write failure
}

// Reason returns the reason of the first skip. Failures are recorded as a
// skip carrying ReasonReadFailure or ReasonWriteFailure.
func (r FileResult) Reason() Reason {
	if len(r.Skips) > 0 {
		return r.Skips[0].Reason
	}
	return ""
}

// 📋 Report aggregates the file results of one pass. Add is safe for
// concurrent use.
type Report struct {
	Pass      string
	Cancelled bool     // the run stopped before every file was visited
	Warnings  []string // pass-level problems that are not tied to a file

	mu    sync.Mutex
	files []FileResult
	order map[string]int
}

// NewReport creates an empty report for pass.
func NewReport(pass string) *Report {
	return &Report{Pass: pass, order: make(map[string]int)}
}

// Reserve fixes the position of path in Files, so results gathered out of
// order still list in file order.
func (r *Report) Reserve(path string, position int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order[path] = position
}

// Add records a file result.
func (r *Report) Add(result FileResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if result.Pass == "" {
		result.Pass = r.Pass
	}
	r.files = append(r.files, result)
}

// Files returns the results, ordered by reserved position, then insertion.
func (r *Report) Files() []FileResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	files := append([]FileResult(nil), r.files...)
	sort.SliceStable(files, func(i, j int) bool {
		pi, iok := r.order[files[i].Path]
		pj, jok := r.order[files[j].Path]
		if iok && jok {
			return pi < pj
		}
		return iok && !jok
	})
	return files
}

// Count returns how many files ended with outcome.
func (r *Report) Count(outcome Outcome) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, f := range r.files {
		if f.Outcome == outcome {
			n++
		}
	}
	return n
}

// Failed reports whether any file failed.
func (r *Report) Failed() bool {
	return r.Count(OutcomeFailed) > 0
}

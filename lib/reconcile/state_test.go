// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

package reconcile

import (
	"testing"

	"github.com/aegis-vision/aegis/lib/api"
)

func sampleSnapshot() api.Snapshot {
	return api.Snapshot{
		Status:       "Running",
		SystemActive: true,
		Detections: []api.Detection{
			{Label: "person", Confidence: 0.91},
			{Label: "knife", Confidence: 0.42, IsDangerous: true},
		},
		Guidance: "A person is nearby.",
		Logs:     []string{"[12:00:01] Detected person (0.91)"},
	}
}

func TestFirstDiffIsFullyDirty(t *testing.T) {
	var state State
	delta := state.Diff(sampleSnapshot())
	if !delta.Detections || !delta.Logs || !delta.Guidance {
		t.Errorf("first diff = %+v, want all slices dirty", delta)
	}
}

func TestIdenticalContentIsClean(t *testing.T) {
	var state State
	first := state.Diff(sampleSnapshot())
	state.CommitDetections(first)
	state.CommitLogs(first)
	state.CommitGuidance(first)

	// A second snapshot with equal content but fresh object identity
	// must not dirty anything.
	second := state.Diff(sampleSnapshot())
	if second.Detections || second.Logs || second.Guidance {
		t.Errorf("diff of identical content = %+v, want clean", second)
	}
}

func TestSliceIndependence(t *testing.T) {
	var state State
	first := state.Diff(sampleSnapshot())
	state.CommitDetections(first)
	state.CommitLogs(first)
	state.CommitGuidance(first)

	changed := sampleSnapshot()
	changed.Logs = append(changed.Logs, "[12:00:02] Detected person (0.93)")

	delta := state.Diff(changed)
	if delta.Detections {
		t.Error("unchanged detections reported dirty")
	}
	if !delta.Logs {
		t.Error("appended log line not reported dirty")
	}
	if delta.Guidance {
		t.Error("unchanged guidance reported dirty")
	}
}

func TestUncommittedSliceStaysDirty(t *testing.T) {
	var state State
	first := state.Diff(sampleSnapshot())
	// Renderer succeeded for logs only; detections render failed.
	state.CommitLogs(first)

	delta := state.Diff(sampleSnapshot())
	if !delta.Detections {
		t.Error("uncommitted detections slice should remain dirty")
	}
	if delta.Logs {
		t.Error("committed logs slice should be clean")
	}
}

func TestEmptyListsRenderOnceThenSettle(t *testing.T) {
	var state State
	empty := api.Snapshot{}

	first := state.Diff(empty)
	if !first.Detections || !first.Logs {
		t.Fatalf("initial empty snapshot = %+v, want dirty lists (placeholders must draw)", first)
	}
	state.CommitDetections(first)
	state.CommitLogs(first)

	second := state.Diff(empty)
	if second.Detections || second.Logs {
		t.Errorf("second empty snapshot = %+v, want clean", second)
	}
}

func TestLogsEmptiedAfterContentIsDirty(t *testing.T) {
	var state State
	first := state.Diff(sampleSnapshot())
	state.CommitLogs(first)

	emptied := sampleSnapshot()
	emptied.Logs = nil
	if delta := state.Diff(emptied); !delta.Logs {
		t.Error("logs going from non-empty to empty must be dirty (placeholder draw)")
	}
}

func TestSuppressGuidance(t *testing.T) {
	var state State
	delta := state.Diff(sampleSnapshot())
	delta.SuppressGuidance()
	if delta.Guidance {
		t.Error("SuppressGuidance did not clear the guidance bit")
	}

	// Nothing was committed, so a later poll with the same guidance
	// sees it dirty again.
	if later := state.Diff(sampleSnapshot()); !later.Guidance {
		t.Error("suppressed guidance must resurface on the next diff")
	}
}

func TestDetectionFieldChangesDirty(t *testing.T) {
	base := sampleSnapshot()

	tests := []struct {
		name   string
		mutate func(*api.Snapshot)
	}{
		{"confidence", func(s *api.Snapshot) { s.Detections[0].Confidence = 0.92 }},
		{"label", func(s *api.Snapshot) { s.Detections[0].Label = "dog" }},
		{"danger flag", func(s *api.Snapshot) { s.Detections[0].IsDangerous = true }},
		{"order", func(s *api.Snapshot) {
			s.Detections[0], s.Detections[1] = s.Detections[1], s.Detections[0]
		}},
		{"length", func(s *api.Snapshot) { s.Detections = s.Detections[:1] }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var state State
			first := state.Diff(base)
			state.CommitDetections(first)

			changed := sampleSnapshot()
			test.mutate(&changed)
			if delta := state.Diff(changed); !delta.Detections {
				t.Error("change not reported dirty")
			}
		})
	}
}

func TestFingerprintDomainSeparation(t *testing.T) {
	// The same byte content digested in two domains must differ, so a
	// cross-slice collision can never suppress a render.
	logs := FingerprintLogs([]string{"person"})
	detections := FingerprintDetections(nil)
	if logs == detections {
		t.Error("empty detections and one-line logs collided")
	}

	var asLogs, asDetections Fingerprint
	asLogs = FingerprintLogs(nil)
	asDetections = FingerprintDetections(nil)
	if asLogs == asDetections {
		t.Error("empty content produced equal fingerprints across domains")
	}
}

func TestFingerprintLogsBoundaryAliasing(t *testing.T) {
	// Length prefixing must keep ["ab","c"] distinct from ["a","bc"].
	left := FingerprintLogs([]string{"ab", "c"})
	right := FingerprintLogs([]string{"a", "bc"})
	if left == right {
		t.Error("log fingerprints aliased across line boundaries")
	}
}

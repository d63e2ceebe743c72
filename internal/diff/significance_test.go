package diff

import (
	"testing"

	"archmap/internal/model"
)

func resultWith(fn func(*Result)) *Result {
	r := &Result{
		AddedComponents:    []SnapshotComponent{},
		RemovedComponents:  []SnapshotComponent{},
		ModifiedComponents: []ModifiedComponent{},
		AddedConnections:   []SnapshotConnection{},
		RemovedConnections: []SnapshotConnection{},
	}
	fn(r)
	return r
}

func TestClassifySignificance(t *testing.T) {
	testCases := []struct {
		name      string
		result    *Result
		prevCount int
		expected  model.Significance
		trigger   string
	}{
		{
			name: "database component added is major",
			result: resultWith(func(r *Result) {
				r.AddedComponents = []SnapshotComponent{
					{Name: "postgres", Type: model.TypeDatabase, Layer: model.LayerDatabase},
				}
			}),
			prevCount: 10,
			expected:  model.SignificanceMajor,
			trigger:   TriggerLayerChange,
		},
		{
			name: "infra component removed is major",
			result: resultWith(func(r *Result) {
				r.RemovedComponents = []SnapshotComponent{
					{Name: "nginx", Type: model.TypeInfra, Layer: model.LayerInfra},
				}
			}),
			prevCount: 10,
			expected:  model.SignificanceMajor,
			trigger:   TriggerLayerChange,
		},
		{
			name: "high churn is major",
			result: resultWith(func(r *Result) {
				for i := 0; i < 3; i++ {
					r.ModifiedComponents = append(r.ModifiedComponents, ModifiedComponent{
						Name: "c", Type: model.TypeService,
						Changes: []string{"status: active -> outdated"},
					})
				}
			}),
			prevCount: 10,
			expected:  model.SignificanceMajor,
			trigger:   TriggerHighChurn,
		},
		{
			name: "new package is minor",
			result: resultWith(func(r *Result) {
				r.AddedComponents = []SnapshotComponent{
					{Name: "lodash", Type: model.TypeNpmPackage, Layer: model.LayerFrontend},
				}
				// the frontend layer is already present among modified
				r.ModifiedComponents = []ModifiedComponent{{
					Name: "react", Type: model.TypeNpmPackage, Layer: model.LayerFrontend,
					Changes: []string{"layer: backend -> frontend"},
				}}
			}),
			prevCount: 100,
			expected:  model.SignificanceMinor,
			trigger:   TriggerNewPackage,
		},
		{
			name: "layer already held by a version-only modification is not new",
			result: resultWith(func(r *Result) {
				r.AddedComponents = []SnapshotComponent{
					{Name: "worker", Type: model.TypeService, Layer: model.LayerBackend},
				}
				r.ModifiedComponents = []ModifiedComponent{{
					Name: "api", Type: model.TypeService, Layer: model.LayerBackend,
					Changes: []string{"version: 1.4.2 -> 1.4.3"},
				}}
			}),
			prevCount: 100,
			expected:  model.SignificancePatch,
			trigger:   TriggerMetadataOnly,
		},
		{
			name: "added component in an unseen layer is major",
			result: resultWith(func(r *Result) {
				r.AddedComponents = []SnapshotComponent{
					{Name: "stripe", Type: model.TypeService, Layer: model.LayerExternal},
				}
				r.ModifiedComponents = []ModifiedComponent{{
					Name: "api", Type: model.TypeService, Layer: model.LayerBackend,
					Changes: []string{"version: 1.4.2 -> 1.4.3"},
				}}
			}),
			prevCount: 100,
			expected:  model.SignificanceMajor,
			trigger:   TriggerNewLayer,
		},
		{
			name: "connection change is minor",
			result: resultWith(func(r *Result) {
				r.AddedConnections = []SnapshotConnection{
					{FromName: "api", ToName: "redis", Type: model.ConnServiceCall},
				}
			}),
			prevCount: 10,
			expected:  model.SignificanceMinor,
			trigger:   TriggerConnectionChange,
		},
		{
			name: "major version bump is minor",
			result: resultWith(func(r *Result) {
				r.ModifiedComponents = []ModifiedComponent{{
					Name: "react", Type: model.TypeNpmPackage,
					Changes: []string{"version: 17.0.2 -> 18.2.0"},
				}}
			}),
			prevCount: 100,
			expected:  model.SignificanceMinor,
			trigger:   TriggerVersionBump,
		},
		{
			name: "patch version change is patch",
			result: resultWith(func(r *Result) {
				r.ModifiedComponents = []ModifiedComponent{{
					Name: "react", Type: model.TypeNpmPackage,
					Changes: []string{"version: 18.2.0 -> 18.2.1"},
				}}
			}),
			prevCount: 100,
			expected:  model.SignificancePatch,
			trigger:   TriggerMetadataOnly,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			significance, triggers := ClassifySignificance(tc.result, tc.prevCount)
			if significance != tc.expected {
				t.Errorf("Expected %s, got %s (triggers %v)", tc.expected, significance, triggers)
			}
			found := false
			for _, trig := range triggers {
				if trig == tc.trigger {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected trigger %s in %v", tc.trigger, triggers)
			}
		})
	}
}

// Churn is measured against the prior count: the same absolute change is
// major for a small graph and patch-level for a large one.
func TestHighChurnRelative(t *testing.T) {
	r := resultWith(func(r *Result) {
		r.ModifiedComponents = []ModifiedComponent{
			{Name: "a", Type: model.TypeService, Changes: []string{"status: active -> outdated"}},
			{Name: "b", Type: model.TypeService, Changes: []string{"status: active -> outdated"}},
			{Name: "c", Type: model.TypeService, Changes: []string{"status: active -> outdated"}},
		}
	})
	if sig, _ := ClassifySignificance(r, 10); sig != model.SignificanceMajor {
		t.Errorf("3 of 10 changed should be major, got %s", sig)
	}
	if sig, _ := ClassifySignificance(r, 100); sig != model.SignificancePatch {
		t.Errorf("3 of 100 changed should be patch, got %s", sig)
	}
}

func TestNoChangesIsPatchWithNoTriggers(t *testing.T) {
	significance, triggers := ClassifySignificance(resultWith(func(*Result) {}), 10)
	if significance != model.SignificancePatch {
		t.Errorf("Expected patch for empty diff, got %s", significance)
	}
	if len(triggers) != 0 {
		t.Errorf("Expected no triggers for empty diff, got %v", triggers)
	}
}

func TestMajorSegment(t *testing.T) {
	testCases := []struct {
		version  string
		expected string
	}{
		{"18.2.0", "18"},
		{"v2.1.0", "2"},
		{"1", "1"},
		{"", ""},
	}
	for _, tc := range testCases {
		if got := majorSegment(tc.version); got != tc.expected {
			t.Errorf("majorSegment(%q) = %q, expected %q", tc.version, got, tc.expected)
		}
	}
}

package mood

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var rawMoodGen = gen.OneConstOf("flow", "buggy", "learning", "meetings", "standard", "happy", "")

// buildDoc nests every other marker one paragraph deeper to mix levels
func buildDoc(raw []string) map[string]any {
	content := make([]any, 0, len(raw))
	for i, s := range raw {
		var n any = marker(s)
		if i%2 == 1 {
			n = para(map[string]any{"type": "text"}, n)
		}
		content = append(content, n)
	}
	return doc(content...)
}

func stableUnique(raw []string) []Mood {
	out := []Mood{}
	seen := map[string]bool{}
	for _, s := range raw {
		if _, ok := ParseMood(s); !ok || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, Mood(s))
	}
	return out
}

func TestProperty_ExtractMoodsIsStableUnique(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("moods are the first occurrences in traversal order", prop.ForAll(
		func(raw []string) bool {
			got := ProcessContent(buildDoc(raw))
			if !reflect.DeepEqual(got.Moods, stableUnique(raw)) {
				t.Logf("raw=%v got=%v", raw, got.Moods)
				return false
			}
			return true
		},
		gen.SliceOf(rawMoodGen),
	))

	properties.Property("dominant is present iff moods are and belongs to them", prop.ForAll(
		func(raw []string) bool {
			got := ProcessContent(buildDoc(raw))
			if len(got.Moods) == 0 {
				return got.Dominant == ""
			}
			for _, m := range got.Moods {
				if m == got.Dominant {
					return true
				}
			}
			return false
		},
		gen.SliceOf(rawMoodGen),
	))

	properties.TestingRun(t)
}

func TestProperty_DominantMoodFirstToReachMax(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("winner has the max count and reached it earliest", prop.ForAll(
		func(raw []string) bool {
			moods := make([]Mood, 0, len(raw))
			for _, s := range raw {
				if s != "" {
					moods = append(moods, Mood(s))
				}
			}

			got, ok := DominantMood(moods)
			if len(moods) == 0 {
				return !ok && got == ""
			}

			counts := map[Mood]int{}
			for _, m := range moods {
				counts[m]++
			}
			top := 0
			for _, c := range counts {
				if c > top {
					top = c
				}
			}

			// index at which each mood first hits the top count
			reached := map[Mood]int{}
			running := map[Mood]int{}
			for i, m := range moods {
				running[m]++
				if running[m] == top {
					if _, done := reached[m]; !done {
						reached[m] = i
					}
				}
			}
			want, wantIdx := Mood(""), len(moods)
			for m, idx := range reached {
				if idx < wantIdx {
					want, wantIdx = m, idx
				}
			}
			return ok && got == want
		},
		gen.SliceOf(rawMoodGen),
	))

	properties.TestingRun(t)
}

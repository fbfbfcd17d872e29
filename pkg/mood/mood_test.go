package mood

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func doc(children ...any) map[string]any {
	return map[string]any{"type": "doc", "content": children}
}

func marker(m any) map[string]any {
	return map[string]any{"type": "moodBlock", "attrs": map[string]any{"mood": m}}
}

func para(children ...any) map[string]any {
	return map[string]any{"type": "paragraph", "content": children}
}

func TestIsDocument(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"nil", nil, false},
		{"string", "doc", false},
		{"number", 42.0, false},
		{"slice", []any{}, false},
		{"wrong type", map[string]any{"type": "paragraph", "content": []any{}}, false},
		{"missing content", map[string]any{"type": "doc"}, false},
		{"content not array", map[string]any{"type": "doc", "content": "x"}, false},
		{"empty doc", doc(), true},
		{"doc with nodes", doc(para()), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDocument(tt.in); got != tt.want {
				t.Errorf("IsDocument() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractMoods(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want []Mood
	}{
		{
			name: "single mood",
			in:   doc(marker("flow")),
			want: []Mood{Flow},
		},
		{
			name: "multiple moods in order",
			in:   doc(marker("flow"), marker("learning"), marker("buggy")),
			want: []Mood{Flow, Learning, Buggy},
		},
		{
			name: "duplicates removed keeping first occurrence",
			in:   doc(marker("buggy"), marker("flow"), marker("buggy"), marker("flow")),
			want: []Mood{Buggy, Flow},
		},
		{
			name: "nested content",
			in:   doc(para(marker("learning"))),
			want: []Mood{Learning},
		},
		{
			name: "pre-order across levels",
			in:   doc(para(marker("meetings"), para(marker("standard"))), marker("flow")),
			want: []Mood{Meetings, Standard, Flow},
		},
		{
			name: "children of a marker are visited",
			in: doc(map[string]any{
				"type":    "moodBlock",
				"attrs":   map[string]any{"mood": "flow"},
				"content": []any{marker("buggy")},
			}),
			want: []Mood{Flow, Buggy},
		},
		{
			name: "invalid mood ignored",
			in:   doc(marker("invalid"), marker("flow")),
			want: []Mood{Flow},
		},
		{
			name: "non-string mood ignored",
			in:   doc(marker(3.0), marker(true)),
			want: []Mood{},
		},
		{
			name: "marker without attrs",
			in:   doc(map[string]any{"type": "moodBlock"}),
			want: []Mood{},
		},
		{
			name: "malformed nodes skipped",
			in:   doc("text", 1.0, nil, map[string]any{"type": 5, "content": "x"}, marker("standard")),
			want: []Mood{Standard},
		},
		{
			name: "empty content",
			in:   doc(),
			want: []Mood{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDocument(tt.in)
			if err != nil {
				t.Fatalf("ParseDocument() error = %v", err)
			}
			got := ExtractMoods(d)
			if got == nil {
				t.Fatal("ExtractMoods() returned nil, want empty slice")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractMoods() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractMoods_BuiltTree(t *testing.T) {
	d := NewDocument(
		Container("paragraph", Marker(Learning), Marker(Mood("nope"))),
		Marker(Flow, Marker(Learning)),
	)
	want := []Mood{Learning, Flow}
	if got := ExtractMoods(d); !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractMoods() = %v, want %v", got, want)
	}
	if got := ExtractMoods(nil); len(got) != 0 {
		t.Errorf("ExtractMoods(nil) = %v, want empty", got)
	}
}

func TestDominantMood(t *testing.T) {
	tests := []struct {
		name   string
		in     []Mood
		want   Mood
		wantOK bool
	}{
		{"empty", nil, "", false},
		{"single", []Mood{Meetings}, Meetings, true},
		{"strict majority", []Mood{Flow, Flow, Buggy, Learning}, Flow, true},
		{"tie keeps first to reach max", []Mood{Flow, Buggy, Flow, Buggy}, Flow, true},
		{"later mood reaches max first", []Mood{Buggy, Flow, Flow, Buggy}, Flow, true},
		{"all distinct", []Mood{Buggy, Flow, Learning, Meetings, Standard}, Buggy, true},
		{"overtaken", []Mood{Flow, Buggy, Buggy}, Buggy, true},
		{"empty values skipped", []Mood{"", "", Standard}, Standard, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DominantMood(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("DominantMood(%v) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestProcessContent(t *testing.T) {
	tests := []struct {
		name         string
		in           any
		wantMoods    []Mood
		wantDominant Mood
	}{
		{"nil", nil, []Mood{}, ""},
		{"string", "hello", []Mood{}, ""},
		{"not a doc", map[string]any{"type": "paragraph"}, []Mood{}, ""},
		{"two moods", doc(marker("flow"), para(marker("learning"))), []Mood{Flow, Learning}, Flow},
		{"no valid moods", doc(marker("nope"), para()), []Mood{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProcessContent(tt.in)
			if !reflect.DeepEqual(got.Moods, tt.wantMoods) {
				t.Errorf("Moods = %v, want %v", got.Moods, tt.wantMoods)
			}
			if got.Dominant != tt.wantDominant {
				t.Errorf("Dominant = %q, want %q", got.Dominant, tt.wantDominant)
			}
			if got.HasDominant() != (len(got.Moods) > 0) {
				t.Errorf("HasDominant() = %v with moods %v", got.HasDominant(), got.Moods)
			}
		})
	}
}

// nestedJSON places a flow marker at the given level below the root
func nestedJSON(level int) string {
	inner := `{"type":"moodBlock","attrs":{"mood":"flow"}}`
	for i := 1; i < level; i++ {
		inner = `{"type":"paragraph","content":[` + inner + `]}`
	}
	return `{"type":"doc","content":[` + inner + `]}`
}

func TestProcessJSON(t *testing.T) {
	t.Run("document", func(t *testing.T) {
		got, err := ProcessJSON([]byte(`{"type":"doc","content":[{"type":"moodBlock","attrs":{"mood":"buggy"}}]}`))
		if err != nil {
			t.Fatalf("ProcessJSON() error = %v", err)
		}
		if !reflect.DeepEqual(got.Moods, []Mood{Buggy}) || got.Dominant != Buggy {
			t.Errorf("ProcessJSON() = %+v", got)
		}
	})

	t.Run("plain JSON is not an error", func(t *testing.T) {
		for _, in := range []string{`null`, `"text"`, `[1,2]`, `{"type":"paragraph"}`} {
			got, err := ProcessJSON([]byte(in))
			if err != nil {
				t.Errorf("ProcessJSON(%s) error = %v", in, err)
			}
			if len(got.Moods) != 0 || got.Dominant != "" {
				t.Errorf("ProcessJSON(%s) = %+v, want empty", in, got)
			}
		}
	})

	t.Run("undecodable", func(t *testing.T) {
		if _, err := ProcessJSON([]byte(`{"type":`)); err == nil {
			t.Error("ProcessJSON() expected decode error")
		}
	})

	t.Run("max depth accepted", func(t *testing.T) {
		got, err := ProcessJSON([]byte(nestedJSON(MaxDepth)))
		if err != nil {
			t.Fatalf("ProcessJSON() error = %v", err)
		}
		if !reflect.DeepEqual(got.Moods, []Mood{Flow}) {
			t.Errorf("Moods = %v, want [flow]", got.Moods)
		}
	})

	t.Run("beyond max depth rejected", func(t *testing.T) {
		_, err := ProcessJSON([]byte(nestedJSON(MaxDepth + 1)))
		if !errors.Is(err, ErrDocumentTooDeep) {
			t.Errorf("ProcessJSON() error = %v, want ErrDocumentTooDeep", err)
		}
		// decoding alone fails the same way
		d, _ := DecodeDocument([]byte(nestedJSON(MaxDepth + 1)))
		if d != nil {
			t.Error("DecodeDocument() returned a document beyond max depth")
		}
	})
}

func TestExtractMoods_DeepBuiltTreeIsBounded(t *testing.T) {
	leaf := Marker(Buggy)
	root := leaf
	for i := 0; i < MaxDepth+10; i++ {
		root = Container("paragraph", root)
	}
	got := ExtractMoods(NewDocument(Marker(Flow), root))
	if !reflect.DeepEqual(got, []Mood{Flow}) {
		t.Errorf("ExtractMoods() = %v, want [flow]", got)
	}
}

func TestParseMood(t *testing.T) {
	for _, m := range All() {
		if got, ok := ParseMood(m.String()); !ok || got != m {
			t.Errorf("ParseMood(%q) = (%q, %v)", m, got, ok)
		}
	}
	for _, s := range []string{"", "Flow", "happy", strings.Repeat("x", 3)} {
		if _, ok := ParseMood(s); ok {
			t.Errorf("ParseMood(%q) accepted an unknown mood", s)
		}
	}
	if got := FromStrings([]string{"flow", "x", "buggy"}); !reflect.DeepEqual(got, []Mood{Flow, Buggy}) {
		t.Errorf("FromStrings() = %v", got)
	}
}

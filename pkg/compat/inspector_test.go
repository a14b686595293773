package compat

import "testing"

func TestInspect_Checklist(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]any
		want  int
	}{
		{
			name:  "decoded JSON items",
			props: map[string]any{"items": []any{"a", "b", "c"}},
			want:  3,
		},
		{
			name:  "typed string slice",
			props: map[string]any{"items": []string{"a", "b"}},
			want:  2,
		},
		{
			name:  "missing items prop",
			props: map[string]any{"title": "checklist"},
			want:  0,
		},
		{
			name:  "items is not a collection",
			props: map[string]any{"items": "oops"},
			want:  0,
		},
		{
			name:  "nil props",
			props: nil,
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insp := Inspect(ComponentChecklist, tt.props)
			if got := insp.Quantities[QuantityItemCount]; got != tt.want {
				t.Errorf("item count = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInspect_TextLength(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]any
		want  int
	}{
		{
			name:  "single string",
			props: map[string]any{"text": "hello world"},
			want:  11,
		},
		{
			name:  "sequence of fragments",
			props: map[string]any{"text": []any{"hello", " ", "world"}},
			want:  11,
		},
		{
			name:  "paragraphs fallback",
			props: map[string]any{"paragraphs": []any{"abc", "defg"}},
			want:  7,
		},
		{
			name:  "multibyte runes counted as characters",
			props: map[string]any{"text": "héllo ünïcode"},
			want:  13,
		},
		{
			name:  "non-string fragments ignored",
			props: map[string]any{"text": []any{"abc", 42, nil, "de"}},
			want:  5,
		},
		{
			name:  "missing text",
			props: map[string]any{},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insp := Inspect(ComponentNarrativeParagraph, tt.props)
			if got := insp.Quantities[QuantityTextLength]; got != tt.want {
				t.Errorf("text length = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInspect_QueryRestatement(t *testing.T) {
	insp := Inspect(ComponentQueryRestatement, map[string]any{"query": "top holdings by return"})
	if got := insp.Quantities[QuantityTextLength]; got != 22 {
		t.Errorf("query length = %d, want 22", got)
	}

	// Falls back to the text prop when query is absent.
	insp = Inspect(ComponentQueryRestatement, map[string]any{"text": "abcd"})
	if got := insp.Quantities[QuantityTextLength]; got != 4 {
		t.Errorf("fallback length = %d, want 4", got)
	}
}

func TestInspect_SectionStackDepth(t *testing.T) {
	tests := []struct {
		name      string
		props     map[string]any
		wantCount int
		wantDepth int
	}{
		{
			name:      "flat sections",
			props:     map[string]any{"children": []any{map[string]any{}, map[string]any{}}},
			wantCount: 2,
			wantDepth: 1,
		},
		{
			name: "nested two deep",
			props: map[string]any{"children": []any{
				map[string]any{"children": []any{map[string]any{}}},
			}},
			wantCount: 1,
			wantDepth: 2,
		},
		{
			name:      "sections alias",
			props:     map[string]any{"sections": []any{map[string]any{}}},
			wantCount: 1,
			wantDepth: 1,
		},
		{
			name:      "no children",
			props:     map[string]any{},
			wantCount: 0,
			wantDepth: 0,
		},
		{
			name:      "non-descriptor children",
			props:     map[string]any{"children": []any{"a", "b"}},
			wantCount: 2,
			wantDepth: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insp := Inspect(ComponentSectionStack, tt.props)
			if got := insp.Quantities[QuantityItemCount]; got != tt.wantCount {
				t.Errorf("item count = %d, want %d", got, tt.wantCount)
			}
			if got := insp.Quantities[QuantityNestingDepth]; got != tt.wantDepth {
				t.Errorf("nesting depth = %d, want %d", got, tt.wantDepth)
			}
		})
	}
}

func TestInspect_Variant(t *testing.T) {
	insp := Inspect(ComponentChecklist, map[string]any{"variant": "compact"})
	if insp.Variant != "compact" {
		t.Errorf("variant = %q, want compact", insp.Variant)
	}

	insp = Inspect(ComponentChecklist, map[string]any{"variant": 7})
	if insp.Variant != "" {
		t.Errorf("mismatched variant prop should read as empty, got %q", insp.Variant)
	}
}

func TestInspect_UnknownComponentType(t *testing.T) {
	insp := Inspect(ComponentType("sparkline"), map[string]any{"items": []any{"a"}})
	if len(insp.Quantities) != 0 {
		t.Errorf("unknown component type measures nothing, got %v", insp.Quantities)
	}
}

package cache

import (
	"strings"
	"testing"
	"time"
)

func joinWithSeparator(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

func strPtr(s string) *string { return &s }

func TestKey_Components(t *testing.T) {
	tests := []struct {
		name string
		key  *Key
		want string
	}{
		{
			name: "namespace only",
			key:  NewKey("categories_list"),
			want: "categories_list",
		},
		{
			name: "ints and strings",
			key:  NewKey("list_items").Int("p", 2).Int("s", 9).String("q", "lamp"),
			want: joinWithSeparator("list_items", "p=2", "s=9", "q=lamp"),
		},
		{
			name: "absent optional omitted",
			key:  NewKey("list_items").Int("p", 1).OptionalString("q", nil).Strings("c", nil),
			want: joinWithSeparator("list_items", "p=1"),
		},
		{
			name: "present but empty optional kept",
			key:  NewKey("list_items").Int("p", 1).OptionalString("q", strPtr("")).Strings("c", []string{}),
			want: joinWithSeparator("list_items", "p=1", "q=", "c="),
		},
		{
			name: "list joined with commas",
			key:  NewKey("list_items").Strings("c", []string{"art", "books"}),
			want: joinWithSeparator("list_items", "c=art,books"),
		},
		{
			name: "separator escaped",
			key:  NewKey("list_items").String("q", "a::b"),
			want: joinWithSeparator("list_items", `q=a\:\:b`),
		},
		{
			name: "list element comma escaped",
			key:  NewKey("list_items").Strings("c", []string{"a,b", "c"}),
			want: joinWithSeparator("list_items", `c=a\,b,c`),
		},
		{
			name: "time value in UTC",
			key:  NewKey("history").Value("since", time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))),
			want: joinWithSeparator("history", "since=2024-05-01T11\\:00\\:00Z"),
		},
		{
			name: "nil value omitted",
			key:  NewKey("history").Value("since", (*time.Time)(nil)),
			want: "history",
		},
		{
			name: "map sorted",
			key:  NewKey("m").Value("v", map[string]int{"b": 2, "a": 1}),
			want: joinWithSeparator("m", "v={a=1,b=2}"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.Build(); got != tt.want {
				t.Errorf("Build() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKey_AbsentAndEmptyDiffer(t *testing.T) {
	absent := NewKey("list_items").Int("p", 1).OptionalString("q", nil).Build()
	empty := NewKey("list_items").Int("p", 1).OptionalString("q", strPtr("")).Build()
	if absent == empty {
		t.Fatalf("absent and empty produced the same key %q", absent)
	}
}

func TestKey_Deterministic(t *testing.T) {
	build := func(search string, categories []string) string {
		return NewKey("list_items").Int("p", 1).Int("s", 9).String("q", search).Strings("c", categories).Build()
	}

	search := strings.TrimSpace("  lamp ")
	first := build(search, []string{"art", "books"})
	second := build("lamp", append([]string(nil), "art", "books"))

	if first != second {
		t.Errorf("keys differ: %q vs %q", first, second)
	}
}

func TestKey_LongComponentDigested(t *testing.T) {
	long := strings.Repeat("a", maxComponentLength+1)
	key := NewKey("list_items").String("q", long).Build()

	if strings.Contains(key, long) {
		t.Fatal("long component should be digested")
	}
	if !strings.HasPrefix(key, "list_items::q=#") {
		t.Errorf("unexpected digest form %q", key)
	}
	if key != NewKey("list_items").String("q", long).Build() {
		t.Error("digest must be stable")
	}
	if key == NewKey("list_items").String("q", long+"b").Build() {
		t.Error("different inputs must not share a digest")
	}
}

func TestStaticKey(t *testing.T) {
	builder := StaticKey[struct{}]("categories_list")
	if got := builder.BuildKey(struct{}{}); got != "categories_list" {
		t.Errorf("BuildKey() = %q", got)
	}
}

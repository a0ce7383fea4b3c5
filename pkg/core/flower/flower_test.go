package flower

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantKey string
		wantOK  bool
	}{
		{"known", "daisies", "daisies", true},
		{"default itself", "roses", "roses", true},
		{"unknown", "dandelion", DefaultKey, false},
		{"empty", "", DefaultKey, false},
		{"case sensitive", "Roses", DefaultKey, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(tt.key)
			if got.Key != tt.wantKey || ok != tt.wantOK {
				t.Errorf("Lookup(%q) = (%q, %v), want (%q, %v)", tt.key, got.Key, ok, tt.wantKey, tt.wantOK)
			}
		})
	}
}

func TestCatalogIntegrity(t *testing.T) {
	all := All()
	if len(all) != 12 {
		t.Fatalf("catalog has %d types, want 12", len(all))
	}
	seen := map[string]bool{}
	for _, ft := range all {
		if seen[ft.Key] {
			t.Errorf("duplicate key %q", ft.Key)
		}
		seen[ft.Key] = true
		if ft.Name == "" || ft.Emoji == "" || ft.Petals <= 0 || ft.PetalColor == "" {
			t.Errorf("incomplete type %+v", ft)
		}
		switch ft.Size {
		case SizeSmall, SizeMedium, SizeLarge:
		default:
			t.Errorf("%s has invalid size %q", ft.Key, ft.Size)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	a[0].Name = "mutated"
	if Get(a[0].Key).Name == "mutated" {
		t.Error("All() should not expose the catalog backing array")
	}
}

func TestWeights(t *testing.T) {
	if SizeLarge.Weight() != 3 || SizeMedium.Weight() != 2 || SizeSmall.Weight() != 1 {
		t.Error("unexpected size weights")
	}
	if Get("roses").Weight() <= Get("daisies").Weight() {
		t.Error("roses should outweigh daisies")
	}
}

func TestAccent(t *testing.T) {
	tests := map[string]string{
		"roses":     "sunflowers",
		"daisies":   "roses",
		"dandelion": "roses",
	}
	for key, want := range tests {
		if got := Accent(key); got != want {
			t.Errorf("Accent(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestSearch(t *testing.T) {
	if got := Search("blossom"); len(got) != 1 || got[0].Key != "cherry" {
		t.Errorf("Search(blossom) = %v", got)
	}
	if got := Search(""); len(got) != len(Keys()) {
		t.Errorf("Search(\"\") returned %d types", len(got))
	}
	if got := Search("zzz"); len(got) != 0 {
		t.Errorf("Search(zzz) = %v, want none", got)
	}
}

package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/digibouquet/pkg/cache"
	"github.com/matzehuels/digibouquet/pkg/core/bouquet"
	"github.com/matzehuels/digibouquet/pkg/core/render/layout"
	"github.com/matzehuels/digibouquet/pkg/core/render/sink"
	"github.com/matzehuels/digibouquet/pkg/errors"
)

func sampleSpec() bouquet.Spec {
	return bouquet.New(map[string]int{"roses": 3, "daisies": 3}, 7, bouquet.GreeneryClassic)
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"thumbnail", false},
		{"dot", false},
		{"diagram", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want %s", tt.format, errors.GetCode(err), errors.ErrCodeInvalidFormat)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"simple", false},
		{"handdrawn", false},
		{"invalid", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestOptionsValidateForLayout(t *testing.T) {
	negative := -1.0
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"valid", Options{Spec: sampleSpec()}, ""},
		{"empty bouquet", Options{Spec: bouquet.New(nil, 1, "")}, errors.ErrCodeInvalidSelection},
		{"too many", Options{Spec: bouquet.New(map[string]int{"roses": 11}, 1, "")}, errors.ErrCodeInvalidSelection},
		{"bad greenery", Options{Spec: bouquet.New(map[string]int{"roses": 2}, 1, "fern")}, errors.ErrCodeInvalidSelection},
		{"huge frame", Options{Spec: sampleSpec(), Width: 10000}, errors.ErrCodeInvalidInput},
		{"negative jitter", Options{Spec: sampleSpec(), Jitter: &negative}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForLayout()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Fatalf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsValidateForRender(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{}, false},
		{"bad format", Options{Formats: []string{"gif"}}, true},
		{"bad style", Options{Style: "watercolor"}, true},
		{"scale too large", Options{Scale: MaxScale + 1}, true},
		{"thumb too small", Options{ThumbSize: 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForRender()
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Spec: sampleSpec()}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	first := opts

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if opts.Width != first.Width || opts.Height != first.Height {
		t.Error("frame changed on second call")
	}
	if opts.Style != first.Style {
		t.Error("Style changed on second call")
	}
	if len(opts.Formats) != len(first.Formats) {
		t.Error("Formats changed on second call")
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	opts := Options{}
	opts.SetLayoutDefaults()

	if opts.Width != DefaultWidth {
		t.Errorf("Width should be %f, got %f", DefaultWidth, opts.Width)
	}
	if opts.Height != DefaultHeight {
		t.Errorf("Height should be %f, got %f", DefaultHeight, opts.Height)
	}
	if opts.Spec.Greenery != bouquet.DefaultGreenery {
		t.Errorf("Greenery should be %s, got %s", bouquet.DefaultGreenery, opts.Spec.Greenery)
	}
	if opts.JitterAmount() != layout.DefaultJitter {
		t.Errorf("JitterAmount should be %f, got %f", layout.DefaultJitter, opts.JitterAmount())
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style should be %s, got %s", DefaultStyle, opts.Style)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %d, got %d", DefaultScale, opts.Scale)
	}
	if opts.ThumbSize != sink.DefaultThumbnailSize {
		t.Errorf("ThumbSize should be %d, got %d", sink.DefaultThumbnailSize, opts.ThumbSize)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Style: StyleSimple, Scale: 3, ThumbSize: 120, Card: &sink.CardText{To: "Ana", From: "Ben", Message: "hi"}}

	if k := opts.ArtifactKeyOpts(FormatJSON); k.Style != "" || k.Card != "" {
		t.Errorf("json key should ignore style and card, got %+v", k)
	}
	if k := opts.ArtifactKeyOpts(FormatPNG); k.Scale != 3 || k.Card == "" {
		t.Errorf("png key should carry scale and card, got %+v", k)
	}
	if k := opts.ArtifactKeyOpts(FormatThumbnail); k.Thumb != 120 || k.Card != "" {
		t.Errorf("thumbnail key should carry size and no card, got %+v", k)
	}

	other := opts
	other.Card = &sink.CardText{To: "Ana", From: "Ben", Message: "hello"}
	if opts.ArtifactKeyOpts(FormatSVG) == other.ArtifactKeyOpts(FormatSVG) {
		t.Error("different messages should give different svg keys")
	}
}

func TestSpecHashStable(t *testing.T) {
	a := bouquet.New(map[string]int{"roses": 3, "daisies": 3}, 7, bouquet.GreeneryClassic)
	b := bouquet.New(map[string]int{"daisies": 3, "roses": 3}, 7, bouquet.GreeneryClassic)
	if SpecHash(a) != SpecHash(b) {
		t.Error("equal specs should hash equally")
	}
	c := bouquet.New(map[string]int{"roses": 3, "daisies": 3}, 8, bouquet.GreeneryClassic)
	if SpecHash(a) == SpecHash(c) {
		t.Error("different seeds should hash differently")
	}
}

func TestRenderFormats(t *testing.T) {
	opts := Options{Spec: sampleSpec(), Formats: []string{FormatSVG, FormatJSON, FormatDOT}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	l := GenerateLayout(opts)

	artifacts, err := Render(context.Background(), l, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(artifacts) != 3 {
		t.Fatalf("expected 3 artifacts, got %d", len(artifacts))
	}
	if !bytes.HasPrefix(artifacts[FormatSVG], []byte("<svg")) {
		t.Errorf("svg artifact does not start with <svg: %q", artifacts[FormatSVG][:min(20, len(artifacts[FormatSVG]))])
	}
	if !strings.Contains(string(artifacts[FormatDOT]), "digraph bouquet") {
		t.Error("dot artifact missing graph header")
	}
	parsed, err := layout.Unmarshal(artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if len(parsed.Flowers) != 6 {
		t.Errorf("json artifact has %d flowers, want 6", len(parsed.Flowers))
	}
}

func TestRenderCardChangesSVG(t *testing.T) {
	opts := Options{Spec: sampleSpec(), Style: StyleSimple}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	l := GenerateLayout(opts)

	plain, err := Render(context.Background(), l, opts)
	if err != nil {
		t.Fatal(err)
	}
	opts.Card = &sink.CardText{To: "Ana", From: "Ben", Message: "Happy spring"}
	withCard, err := Render(context.Background(), l, opts)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(plain[FormatSVG], withCard[FormatSVG]) {
		t.Error("card should change the svg")
	}
	if !strings.Contains(string(withCard[FormatSVG]), "Happy spring") {
		t.Error("card message missing from svg")
	}
}

func TestRunnerExecuteDeterministic(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := Options{Spec: sampleSpec(), Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	for _, f := range opts.Formats {
		if !bytes.Equal(first.Artifacts[f], second.Artifacts[f]) {
			t.Errorf("%s output differs between runs", f)
		}
	}
	if first.Stats.FlowerCount != 6 {
		t.Errorf("FlowerCount = %d, want 6", first.Stats.FlowerCount)
	}
	if first.CacheInfo.LayoutHit || second.CacheInfo.LayoutHit {
		t.Error("null cache should never hit")
	}
}

func TestRunnerCachesLayoutAndArtifacts(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	opts := Options{Spec: sampleSpec(), Formats: []string{FormatSVG, FormatJSON}}
	ctx := context.Background()

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss, got %+v", first.CacheInfo)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit, got %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}

	// A new format renders only what is missing.
	opts.Formats = []string{FormatSVG, FormatDOT}
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("dot was never rendered and should miss")
	}
	if len(third.Artifacts) != 2 {
		t.Errorf("expected 2 artifacts, got %d", len(third.Artifacts))
	}

	opts.Refresh = true
	fourth, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if fourth.CacheInfo.LayoutHit || fourth.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestRunnerExecuteInvalid(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Spec: bouquet.New(nil, 1, "")})
	if !errors.Is(err, errors.ErrCodeInvalidSelection) {
		t.Fatalf("error = %v, want INVALID_SELECTION", err)
	}
}

func TestRenderFromLayoutData(t *testing.T) {
	opts := Options{Spec: sampleSpec()}
	if err := opts.ValidateForLayout(); err != nil {
		t.Fatal(err)
	}
	data, err := layout.Marshal(GenerateLayout(opts))
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := RenderFromLayoutData(context.Background(), data, Options{Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("RenderFromLayoutData: %v", err)
	}
	if len(artifacts[FormatSVG]) == 0 {
		t.Error("expected svg output")
	}

	if _, err := RenderFromLayoutData(context.Background(), []byte("{"), Options{}); err == nil {
		t.Error("malformed layout data should fail")
	}
}

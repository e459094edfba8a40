package domain_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"aura/internal/domain"
)

func TestDefaultsFor_GlossaryLiterals(t *testing.T) {
	text := domain.DefaultsFor(domain.BlockKindText).(*domain.TextProps)
	if *text.Content != "Sample Text" || *text.FontSize != 16 || *text.FontWeight != domain.FontWeightNormal || *text.Color != "#000000" {
		t.Errorf("text defaults: %+v", text)
	}

	area := domain.DefaultsFor(domain.BlockKindTextArea).(*domain.TextAreaProps)
	if *area.Content != "Sample Text Area" || *area.FontSize != 14 || *area.TextAlign != domain.TextAlignLeft {
		t.Errorf("textarea defaults: %+v", area)
	}

	img := domain.DefaultsFor(domain.BlockKindImage).(*domain.ImageProps)
	if *img.ImageURL != "https://via.placeholder.com/200x150" || *img.ObjectFit != domain.ObjectFitCover ||
		*img.BorderRadius != 0 || *img.Height != 150 || *img.Width != 200 || *img.AltText != "Sample Image" {
		t.Errorf("image defaults: %+v", img)
	}

	btn := domain.DefaultsFor(domain.BlockKindButton).(*domain.ButtonProps)
	if *btn.ButtonText != "Click Me" || *btn.URL != "#" || *btn.FontSize != 14 || *btn.Padding != 10 ||
		*btn.BackgroundColor != "#007bff" || *btn.TextColor != "#ffffff" || *btn.BorderRadius != 4 {
		t.Errorf("button defaults: %+v", btn)
	}

	if domain.DefaultsFor("video") != nil {
		t.Error("unknown kind should have no defaults")
	}
}

func TestDefaultsFor_ReturnsFreshBags(t *testing.T) {
	a := domain.DefaultsFor(domain.BlockKindText).(*domain.TextProps)
	*a.Content = "changed"
	b := domain.DefaultsFor(domain.BlockKindText).(*domain.TextProps)
	if *b.Content != domain.DefaultTextContent {
		t.Error("defaults table was mutated through a returned bag")
	}
}

func TestResolve_FillsOnlyAbsentFields(t *testing.T) {
	stored := &domain.ButtonProps{BorderRadius: domain.Ptr(0), ButtonText: domain.Ptr("")}
	got := domain.Resolve(stored).(*domain.ButtonProps)

	if *got.BorderRadius != 0 {
		t.Errorf("explicit zero radius replaced with %d", *got.BorderRadius)
	}
	if *got.ButtonText != "" {
		t.Errorf("explicit empty text replaced with %q", *got.ButtonText)
	}
	if *got.Padding != 10 || *got.URL != "#" {
		t.Error("absent fields not resolved")
	}
	if stored.Padding != nil {
		t.Error("Resolve wrote into the stored bag")
	}
}

func TestResolveBlock_NilProperties(t *testing.T) {
	b := domain.Block{ID: "a", Kind: domain.BlockKindTextArea}
	got, ok := domain.ResolveBlock(b).(*domain.TextAreaProps)
	if !ok {
		t.Fatalf("resolved %T", domain.ResolveBlock(b))
	}
	if *got.Content != domain.DefaultTextAreaContent {
		t.Errorf("content = %q", *got.Content)
	}
}

func TestResolveBlock_ForeignPropertiesFallBackToDefaults(t *testing.T) {
	content := "stray"
	b := domain.Block{ID: "a", Kind: domain.BlockKindImage, Properties: &domain.TextProps{Content: &content}}
	got, ok := domain.ResolveBlock(b).(*domain.ImageProps)
	if !ok {
		t.Fatalf("resolved %T for an image block", domain.ResolveBlock(b))
	}
	if *got.Width != domain.DefaultImageWidth || *got.Height != domain.DefaultImageHeight {
		t.Errorf("size = %dx%d", *got.Width, *got.Height)
	}
}

func TestBlockJSON_WireShape(t *testing.T) {
	b := domain.Block{
		ID:         "component-1",
		Kind:       domain.BlockKindText,
		Position:   domain.Position{X: 96, Y: 104},
		Properties: &domain.TextProps{Content: domain.Ptr("Hi"), FontWeight: domain.Ptr(domain.FontWeightBold)},
		StackOrder: 3,
	}
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"component-1","type":"text","position":{"x":96,"y":104},"properties":{"content":"Hi","fontWeight":"700"},"zIndex":3}`
	if string(data) != want {
		t.Errorf("wire form:\n got %s\nwant %s", data, want)
	}

	var back domain.Block
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	props, ok := back.Properties.(*domain.TextProps)
	if !ok {
		t.Fatalf("decoded properties as %T", back.Properties)
	}
	if props.FontSize != nil {
		t.Error("absent field decoded as present")
	}
}

func TestBlockJSON_DispatchesOnType(t *testing.T) {
	raw := `[
		{"id":"a","type":"image","position":{"x":0,"y":0},"properties":{"width":320},"zIndex":1},
		{"id":"b","type":"button","position":{"x":8,"y":8},"properties":null,"zIndex":1}
	]`
	doc, err := domain.UnmarshalDocument([]byte(raw))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if img := doc[0].Properties.(*domain.ImageProps); *img.Width != 320 {
		t.Errorf("width = %d", *img.Width)
	}
	if _, ok := doc[1].Properties.(*domain.ButtonProps); !ok {
		t.Errorf("null properties decoded as %T", doc[1].Properties)
	}
	if doc[0].StackOrder != doc[1].StackOrder {
		t.Error("duplicate stack orders should survive decoding")
	}

	_, err = domain.UnmarshalDocument([]byte(`[{"id":"x","type":"video"}]`))
	if !errors.Is(err, domain.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestMarshalDocument_NilIsEmptyArray(t *testing.T) {
	data, err := domain.MarshalDocument(nil)
	if err != nil || string(data) != "[]" {
		t.Errorf("got %s, %v", data, err)
	}
}

func TestDocument_CloneIsDeep(t *testing.T) {
	doc := domain.Document{{
		ID:         "a",
		Kind:       domain.BlockKindImage,
		Properties: domain.DefaultsFor(domain.BlockKindImage),
	}}
	c := doc.Clone()
	*c[0].Properties.(*domain.ImageProps).Width = 1
	c[0].Position.X = 7
	if *doc[0].Properties.(*domain.ImageProps).Width != 200 || doc[0].Position.X != 0 {
		t.Error("clone shares state with the original")
	}
	if domain.Document(nil).Clone() == nil {
		t.Error("clone of nil should be an empty document")
	}
}

func TestDocument_ByStackOrderIsStable(t *testing.T) {
	doc := domain.Document{
		{ID: "c", StackOrder: 3},
		{ID: "a1", StackOrder: 1},
		{ID: "b", StackOrder: 2},
		{ID: "a2", StackOrder: 1},
	}
	var ids []string
	for _, b := range doc.ByStackOrder() {
		ids = append(ids, b.ID)
	}
	if got := strings.Join(ids, ","); got != "a1,a2,b,c" {
		t.Errorf("order = %s", got)
	}
	if doc[0].ID != "c" {
		t.Error("ByStackOrder sorted in place")
	}
}

func TestBlockPatch_Apply(t *testing.T) {
	b := domain.Block{ID: "a", Kind: domain.BlockKindButton, Properties: domain.DefaultsFor(domain.BlockKindButton), StackOrder: 2}

	got := domain.BlockPatch{StackOrder: domain.Ptr(9)}.Apply(b)
	if got.StackOrder != 9 || got.ID != "a" || got.Kind != domain.BlockKindButton {
		t.Errorf("patched block %+v", got)
	}
	if b.StackOrder != 2 {
		t.Error("Apply modified its input")
	}

	got = domain.BlockPatch{Properties: &domain.TextProps{}}.Apply(b)
	if _, ok := got.Properties.(*domain.ButtonProps); !ok {
		t.Error("foreign-kind properties should be ignored")
	}
}

func TestParseBlockKind(t *testing.T) {
	for _, k := range domain.Kinds {
		if got, err := domain.ParseBlockKind(string(k)); err != nil || got != k {
			t.Errorf("ParseBlockKind(%q) = %q, %v", k, got, err)
		}
	}
	if _, err := domain.ParseBlockKind("Text"); !errors.Is(err, domain.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

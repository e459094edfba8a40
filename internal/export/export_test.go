package export_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"aura/internal/domain"
	"aura/internal/export"
	"aura/internal/storage"
)

func TestHTML_EmptyDocument(t *testing.T) {
	page := export.HTML(nil)
	if !strings.Contains(page, "<title>Aura No-Code Editor Output</title>") {
		t.Error("missing page title")
	}
	if !strings.Contains(page, `<div class="canvas-container">`) {
		t.Error("missing canvas container")
	}
	if strings.Contains(page, "position: absolute") {
		t.Error("empty document rendered elements")
	}
}

func TestHTML_PaintsInStackOrder(t *testing.T) {
	doc := domain.Document{
		{ID: "c", Kind: domain.BlockKindText, Properties: &domain.TextProps{Content: domain.Ptr("third")}, StackOrder: 5},
		{ID: "a", Kind: domain.BlockKindText, Properties: &domain.TextProps{Content: domain.Ptr("first")}, StackOrder: 1},
		{ID: "b", Kind: domain.BlockKindText, Properties: &domain.TextProps{Content: domain.Ptr("second")}, StackOrder: 1},
	}
	page := export.HTML(doc)

	first := strings.Index(page, ">first<")
	second := strings.Index(page, ">second<")
	third := strings.Index(page, ">third<")
	if first < 0 || second < 0 || third < 0 {
		t.Fatalf("missing blocks in:\n%s", page)
	}
	if !(first < second && second < third) {
		t.Errorf("paint order wrong: first=%d second=%d third=%d", first, second, third)
	}
	if doc[0].ID != "c" {
		t.Error("HTML reordered the caller's document")
	}
}

func TestElement_AppliesDefaults(t *testing.T) {
	tests := []struct {
		name  string
		block domain.Block
		want  []string
	}{
		{
			name:  "text",
			block: domain.Block{Kind: domain.BlockKindText, Position: domain.Position{X: 10, Y: 20}, StackOrder: 2},
			want:  []string{"left: 10px; top: 20px;", "font-size: 16px;", "font-weight: 400;", "color: #000000;", "z-index: 2;", ">Sample Text</div>"},
		},
		{
			name:  "textarea",
			block: domain.Block{Kind: domain.BlockKindTextArea, StackOrder: 1},
			want:  []string{"font-size: 14px;", "text-align: left;", ">Sample Text Area</div>"},
		},
		{
			name:  "image",
			block: domain.Block{Kind: domain.BlockKindImage, Properties: &domain.ImageProps{Width: domain.Ptr(320)}},
			want:  []string{`src="https://via.placeholder.com/200x150"`, `alt="Sample Image"`, "object-fit: cover;", "border-radius: 0px;", "height: 150px;", "width: 320px;"},
		},
		{
			name:  "button",
			block: domain.Block{Kind: domain.BlockKindButton},
			want:  []string{`href="#"`, "padding: 10px;", "background-color: #007bff;", "color: #ffffff;", "border-radius: 4px;", ">Click Me</button>"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := export.Element(tt.block)
			for _, w := range tt.want {
				if !strings.Contains(el, w) {
					t.Errorf("%s: missing %q in %s", tt.name, w, el)
				}
			}
		})
	}
}

func TestElement_ExplicitZeroIsKept(t *testing.T) {
	b := domain.Block{Kind: domain.BlockKindButton, Properties: &domain.ButtonProps{BorderRadius: domain.Ptr(0)}}
	if el := export.Element(b); !strings.Contains(el, "border-radius: 0px;") {
		t.Errorf("explicit zero radius lost: %s", el)
	}
}

func TestElement_ButtonLinksAndTextAreaKeepsBreaks(t *testing.T) {
	btn := domain.Block{Kind: domain.BlockKindButton, Properties: &domain.ButtonProps{URL: domain.Ptr("https://example.com/buy")}}
	el := export.Element(btn)
	if !strings.HasPrefix(el, `<a href="https://example.com/buy"><button `) || !strings.HasSuffix(el, "</button></a>") {
		t.Errorf("button not wrapped in its link: %s", el)
	}

	area := domain.Block{Kind: domain.BlockKindTextArea, Properties: &domain.TextAreaProps{Content: domain.Ptr("one\ntwo")}}
	el = export.Element(area)
	if !strings.Contains(el, "white-space: pre-wrap;") || !strings.Contains(el, "one\ntwo") {
		t.Errorf("textarea line breaks not preserved: %s", el)
	}
}

func TestElement_EscapesUserText(t *testing.T) {
	b := domain.Block{Kind: domain.BlockKindImage, Properties: &domain.ImageProps{
		ImageURL: domain.Ptr(`x" onerror="alert(1)`),
		AltText:  domain.Ptr("<b>logo</b>"),
	}}
	el := export.Element(b)
	if strings.Contains(el, `x" onerror`) {
		t.Errorf("attribute not escaped: %s", el)
	}
	if strings.Contains(el, "<b>") {
		t.Errorf("markup not escaped: %s", el)
	}

	text := domain.Block{Kind: domain.BlockKindText, Properties: &domain.TextProps{Content: domain.Ptr("<script>x</script>")}}
	if el := export.Element(text); !strings.Contains(el, "&lt;script&gt;") {
		t.Errorf("content not escaped: %s", el)
	}
}

func TestExportFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "doc.json")
	output := filepath.Join(dir, "out", "index.html")

	if err := os.WriteFile(source, []byte(`[{"id":"a","type":"button","position":{"x":0,"y":0},"properties":{"buttonText":"Go"},"zIndex":1}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := export.ExportFile(source, output); err != nil {
		t.Fatalf("export: %v", err)
	}
	page, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(page), ">Go</button>") {
		t.Errorf("button missing from export:\n%s", page)
	}

	if err := os.WriteFile(source, []byte(`garbage`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := export.ExportFile(source, output); err == nil {
		t.Error("expected error for corrupt snapshot")
	}
}

func TestWatcher_ReexportsOnChange(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	kv, err := storage.NewFileKV(filepath.Join(dir, "store"))
	if err != nil {
		t.Fatal(err)
	}
	if err := kv.Put(ctx, "aura-components", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "index.html")

	results := make(chan error, 4)
	w, err := export.NewWatcher(kv.Path("aura-components"), output, &export.Guard{}, func(err error) { results <- err })
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	doc := []byte(`[{"id":"a","type":"text","position":{"x":0,"y":0},"properties":{"content":"live"},"zIndex":1}]`)
	if err := kv.Put(ctx, "aura-components", doc); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-results:
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no export after snapshot change")
	}
	page, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(page), ">live</div>") {
		t.Errorf("export is stale:\n%s", page)
	}
}

func TestScheduler_RejectsBadExpression(t *testing.T) {
	if _, err := export.NewScheduler("every tuesday", func(context.Context) error { return nil }); err == nil {
		t.Error("expected error for invalid cron expression")
	}
}

func TestScheduler_Next(t *testing.T) {
	s, err := export.NewScheduler("0 9 * * *", func(context.Context) error { return nil })
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	from := time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local)
	want := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	if got := s.Next(from); !got.Equal(want) {
		t.Errorf("Next = %s, want %s", got, want)
	}
}

func TestScheduler_RunsJob(t *testing.T) {
	var runs atomic.Int32
	s, err := export.NewScheduler("@every 1s", func(context.Context) error {
		runs.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	s.Start()
	defer s.Stop(context.Background())

	deadline := time.Now().Add(5 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if runs.Load() == 0 {
		t.Error("scheduled job never ran")
	}
}

func TestGuard_SkipsSameFileWhileBusy(t *testing.T) {
	var g export.Guard
	abs, err := filepath.Abs("out.html")
	if err != nil {
		t.Fatal(err)
	}

	release := make(chan struct{})
	held := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.Run("out.html", func() error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	for _, path := range []string{"out.html", "./out.html", abs} {
		if !g.Busy(path) {
			t.Errorf("%s should share the busy slot", path)
		}
		ran, err := g.Run(path, func() error {
			t.Errorf("ran %s while busy", path)
			return nil
		})
		if ran || err != nil {
			t.Errorf("Run(%s) = %t, %v while busy", path, ran, err)
		}
	}
	if ran, _ := g.Run("other.html", func() error { return nil }); !ran {
		t.Error("a different file should not be blocked")
	}

	close(release)
	<-done
	if g.Busy("out.html") {
		t.Error("slot not released")
	}
	if ran, _ := g.Run("out.html", func() error { return nil }); !ran {
		t.Error("expected Run to succeed after release")
	}
}

func TestGuard_WaitForInFlight(t *testing.T) {
	var g export.Guard
	held := make(chan struct{})
	var finished atomic.Bool
	go g.Run("a.html", func() error {
		close(held)
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
		return nil
	})
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	g.Wait(ctx)
	if !finished.Load() {
		t.Error("Wait returned before the export finished")
	}
}

func TestGuard_NilRunsUnguarded(t *testing.T) {
	var g *export.Guard
	out := filepath.Join(t.TempDir(), "index.html")
	ran, err := g.WriteFile(out, nil)
	if !ran || err != nil {
		t.Fatalf("nil guard: ran=%t err=%v", ran, err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("nothing written: %v", err)
	}
	g.Wait(context.Background())
}

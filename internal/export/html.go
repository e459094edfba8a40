package export

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"aura/internal/domain"
)

// PageTitle is the <title> of every exported page.
const PageTitle = "Aura No-Code Editor Output"

const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>` + PageTitle + `</title>
    <style>
        body {
            margin: 0;
            padding: 20px;
            font-family: Arial, sans-serif;
            background: #f8f9fa;
        }
        .canvas-container {
            position: relative;
            width: 100%;
            height: 100vh;
            background: white;
            border: 1px solid #dee2e6;
            border-radius: 8px;
            overflow: hidden;
        }
    </style>
</head>
<body>
    <div class="canvas-container">
`

const pageTail = `    </div>
</body>
</html>
`

// HTML renders doc as a standalone page. Blocks are painted in StackOrder
// (ties keep insertion order) and absent properties take their defaults.
func HTML(doc domain.Document) string {
	var sb strings.Builder
	sb.WriteString(pageHead)
	for _, b := range doc.ByStackOrder() {
		if el := Element(b); el != "" {
			sb.WriteString("        ")
			sb.WriteString(el)
			sb.WriteByte('\n')
		}
	}
	sb.WriteString(pageTail)
	return sb.String()
}

// Element renders a single absolutely positioned block.
func Element(b domain.Block) string {
	esc := html.EscapeString
	pos := fmt.Sprintf("position: absolute; left: %dpx; top: %dpx;", b.Position.X, b.Position.Y)
	z := fmt.Sprintf("z-index: %d;", b.StackOrder)

	switch p := domain.ResolveBlock(b).(type) {
	case *domain.TextProps:
		return fmt.Sprintf(`<div style="%s font-size: %dpx; font-weight: %s; color: %s; %s">%s</div>`,
			pos, *p.FontSize, esc(string(*p.FontWeight)), esc(*p.Color), z, esc(*p.Content))
	case *domain.TextAreaProps:
		return fmt.Sprintf(`<div style="%s font-size: %dpx; color: %s; text-align: %s; white-space: pre-wrap; %s">%s</div>`,
			pos, *p.FontSize, esc(*p.Color), esc(string(*p.TextAlign)), z, esc(*p.Content))
	case *domain.ImageProps:
		return fmt.Sprintf(`<img src="%s" alt="%s" style="%s object-fit: %s; border-radius: %dpx; height: %dpx; width: %dpx; %s">`,
			esc(*p.ImageURL), esc(*p.AltText), pos, esc(string(*p.ObjectFit)), *p.BorderRadius, *p.Height, *p.Width, z)
	case *domain.ButtonProps:
		return fmt.Sprintf(`<a href="%s"><button style="%s font-size: %dpx; padding: %dpx; background-color: %s; color: %s; border: none; border-radius: %dpx; %s">%s</button></a>`,
			esc(*p.URL), pos, *p.FontSize, *p.Padding, esc(*p.BackgroundColor), esc(*p.TextColor), *p.BorderRadius, z, esc(*p.ButtonText))
	}
	return ""
}

// WriteFile renders doc and replaces path atomically.
func WriteFile(path string, doc domain.Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(HTML(doc)); err != nil {
		tmp.Close()
		return fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// ExportFile reads a persisted document from source and writes its page to
// output.
func ExportFile(source, output string) error {
	data, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	doc, err := domain.UnmarshalDocument(data)
	if err != nil {
		return err
	}
	return WriteFile(output, doc)
}

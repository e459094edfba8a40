package domain

// Literal defaults for each block kind. They are applied when a block is
// created and whenever a block is rendered or exported, never on storage.
const (
	DefaultTextContent     = "Sample Text"
	DefaultTextAreaContent = "Sample Text Area"
	DefaultColor           = "#000000"
	DefaultImageURL        = "https://via.placeholder.com/200x150"
	DefaultAltText         = "Sample Image"
	DefaultButtonText      = "Click Me"
	DefaultButtonURL       = "#"
	DefaultButtonBG        = "#007bff"
	DefaultButtonFG        = "#ffffff"

	DefaultImageWidth  = 200
	DefaultImageHeight = 150
)

// DefaultsFor returns a fresh, fully populated property bag for kind.
// Unknown kinds yield nil.
func DefaultsFor(kind BlockKind) Properties {
	switch kind {
	case BlockKindText:
		return &TextProps{
			Content:    Ptr(DefaultTextContent),
			FontSize:   Ptr(16),
			FontWeight: Ptr(FontWeightNormal),
			Color:      Ptr(DefaultColor),
		}
	case BlockKindTextArea:
		return &TextAreaProps{
			Content:   Ptr(DefaultTextAreaContent),
			FontSize:  Ptr(14),
			Color:     Ptr(DefaultColor),
			TextAlign: Ptr(TextAlignLeft),
		}
	case BlockKindImage:
		return &ImageProps{
			ImageURL:     Ptr(DefaultImageURL),
			AltText:      Ptr(DefaultAltText),
			ObjectFit:    Ptr(ObjectFitCover),
			BorderRadius: Ptr(0),
			Height:       Ptr(DefaultImageHeight),
			Width:        Ptr(DefaultImageWidth),
		}
	case BlockKindButton:
		return &ButtonProps{
			ButtonText:      Ptr(DefaultButtonText),
			URL:             Ptr(DefaultButtonURL),
			FontSize:        Ptr(14),
			Padding:         Ptr(10),
			BackgroundColor: Ptr(DefaultButtonBG),
			TextColor:       Ptr(DefaultButtonFG),
			BorderRadius:    Ptr(4),
		}
	}
	return nil
}

// Resolve fills every absent field of p from the kind defaults and returns
// the result as a new bag. p itself is left untouched.
func Resolve(p Properties) Properties {
	switch p := p.(type) {
	case *TextProps:
		d := DefaultsFor(BlockKindText).(*TextProps)
		return &TextProps{
			Content:    pick(p.Content, d.Content),
			FontSize:   pick(p.FontSize, d.FontSize),
			FontWeight: pick(p.FontWeight, d.FontWeight),
			Color:      pick(p.Color, d.Color),
		}
	case *TextAreaProps:
		d := DefaultsFor(BlockKindTextArea).(*TextAreaProps)
		return &TextAreaProps{
			Content:   pick(p.Content, d.Content),
			FontSize:  pick(p.FontSize, d.FontSize),
			Color:     pick(p.Color, d.Color),
			TextAlign: pick(p.TextAlign, d.TextAlign),
		}
	case *ImageProps:
		d := DefaultsFor(BlockKindImage).(*ImageProps)
		return &ImageProps{
			ImageURL:     pick(p.ImageURL, d.ImageURL),
			AltText:      pick(p.AltText, d.AltText),
			ObjectFit:    pick(p.ObjectFit, d.ObjectFit),
			BorderRadius: pick(p.BorderRadius, d.BorderRadius),
			Height:       pick(p.Height, d.Height),
			Width:        pick(p.Width, d.Width),
		}
	case *ButtonProps:
		d := DefaultsFor(BlockKindButton).(*ButtonProps)
		return &ButtonProps{
			ButtonText:      pick(p.ButtonText, d.ButtonText),
			URL:             pick(p.URL, d.URL),
			FontSize:        pick(p.FontSize, d.FontSize),
			Padding:         pick(p.Padding, d.Padding),
			BackgroundColor: pick(p.BackgroundColor, d.BackgroundColor),
			TextColor:       pick(p.TextColor, d.TextColor),
			BorderRadius:    pick(p.BorderRadius, d.BorderRadius),
		}
	}
	return nil
}

// ResolveBlock returns the block's properties with defaults applied.
func ResolveBlock(b Block) Properties {
	return Resolve(b.Props())
}

func pick[T any](v, fallback *T) *T {
	if v != nil {
		return clonePtr(v)
	}
	return fallback
}

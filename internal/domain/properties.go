package domain

import (
	"encoding/json"
	"fmt"
)

// Properties is the per-kind attribute bag of a block. The set of
// implementations is closed: *TextProps, *TextAreaProps, *ImageProps and
// *ButtonProps. Every field is optional; nil means "use the default".
type Properties interface {
	Kind() BlockKind
	clone() Properties
}

type FontWeight string

const (
	FontWeightNormal FontWeight = "400"
	FontWeightBold   FontWeight = "700"
)

type TextAlign string

const (
	TextAlignLeft   TextAlign = "left"
	TextAlignCenter TextAlign = "center"
	TextAlignRight  TextAlign = "right"
)

type ObjectFit string

const (
	ObjectFitCover   ObjectFit = "cover"
	ObjectFitContain ObjectFit = "contain"
	ObjectFitFill    ObjectFit = "fill"
)

// TextProps configures a single-line text block.
type TextProps struct {
	Content    *string     `json:"content,omitempty"`
	FontSize   *int        `json:"fontSize,omitempty"`
	FontWeight *FontWeight `json:"fontWeight,omitempty"`
	Color      *string     `json:"color,omitempty"`
}

// TextAreaProps configures a multi-line text block.
type TextAreaProps struct {
	Content   *string    `json:"content,omitempty"`
	FontSize  *int       `json:"fontSize,omitempty"`
	Color     *string    `json:"color,omitempty"`
	TextAlign *TextAlign `json:"textAlign,omitempty"`
}

// ImageProps configures an image block.
type ImageProps struct {
	ImageURL     *string    `json:"imageUrl,omitempty"`
	AltText      *string    `json:"altText,omitempty"`
	ObjectFit    *ObjectFit `json:"objectFit,omitempty"`
	BorderRadius *int       `json:"borderRadius,omitempty"`
	Height       *int       `json:"height,omitempty"`
	Width        *int       `json:"width,omitempty"`
}

// ButtonProps configures a link button block.
type ButtonProps struct {
	ButtonText      *string `json:"buttonText,omitempty"`
	URL             *string `json:"url,omitempty"`
	FontSize        *int    `json:"fontSize,omitempty"`
	Padding         *int    `json:"padding,omitempty"`
	BackgroundColor *string `json:"backgroundColor,omitempty"`
	TextColor       *string `json:"textColor,omitempty"`
	BorderRadius    *int    `json:"borderRadius,omitempty"`
}

func (*TextProps) Kind() BlockKind     { return BlockKindText }
func (*TextAreaProps) Kind() BlockKind { return BlockKindTextArea }
func (*ImageProps) Kind() BlockKind    { return BlockKindImage }
func (*ButtonProps) Kind() BlockKind   { return BlockKindButton }

func (p *TextProps) clone() Properties {
	return &TextProps{
		Content:    clonePtr(p.Content),
		FontSize:   clonePtr(p.FontSize),
		FontWeight: clonePtr(p.FontWeight),
		Color:      clonePtr(p.Color),
	}
}

func (p *TextAreaProps) clone() Properties {
	return &TextAreaProps{
		Content:   clonePtr(p.Content),
		FontSize:  clonePtr(p.FontSize),
		Color:     clonePtr(p.Color),
		TextAlign: clonePtr(p.TextAlign),
	}
}

func (p *ImageProps) clone() Properties {
	return &ImageProps{
		ImageURL:     clonePtr(p.ImageURL),
		AltText:      clonePtr(p.AltText),
		ObjectFit:    clonePtr(p.ObjectFit),
		BorderRadius: clonePtr(p.BorderRadius),
		Height:       clonePtr(p.Height),
		Width:        clonePtr(p.Width),
	}
}

func (p *ButtonProps) clone() Properties {
	return &ButtonProps{
		ButtonText:      clonePtr(p.ButtonText),
		URL:             clonePtr(p.URL),
		FontSize:        clonePtr(p.FontSize),
		Padding:         clonePtr(p.Padding),
		BackgroundColor: clonePtr(p.BackgroundColor),
		TextColor:       clonePtr(p.TextColor),
		BorderRadius:    clonePtr(p.BorderRadius),
	}
}

// ClonePropertiesOf returns a deep copy of p, or nil.
func ClonePropertiesOf(p Properties) Properties {
	if p == nil {
		return nil
	}
	return p.clone()
}

// Ptr returns a pointer to v. Handy for building property bags.
func Ptr[T any](v T) *T { return &v }

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// DecodeProperties decodes a JSON properties object for kind. Fields that
// are not mentioned stay absent. Empty input and null yield an empty bag.
func DecodeProperties(kind BlockKind, data []byte) (Properties, error) {
	props, err := emptyProps(kind)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || string(data) == "null" {
		return props, nil
	}
	if err := json.Unmarshal(data, props); err != nil {
		return nil, fmt.Errorf("decode %s properties: %w", kind, err)
	}
	return props, nil
}

// emptyProps returns a zero-valued bag for kind, ready for decoding.
func emptyProps(kind BlockKind) (Properties, error) {
	switch kind {
	case BlockKindText:
		return &TextProps{}, nil
	case BlockKindTextArea:
		return &TextAreaProps{}, nil
	case BlockKindImage:
		return &ImageProps{}, nil
	case BlockKindButton:
		return &ButtonProps{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

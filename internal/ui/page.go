package ui

import (
	"strings"
)

// ElementKind enumerates the element types a page can hold.
type ElementKind int

const (
	ButtonElement ElementKind = iota
	HeaderElement
	LineBreakElement
	TrackLabelElement
)

func (k ElementKind) String() string {
	switch k {
	case ButtonElement:
		return "button"
	case HeaderElement:
		return "header"
	case LineBreakElement:
		return "br"
	case TrackLabelElement:
		return "label"
	default:
		return "unknown"
	}
}

// Action is what pressing a button does.
type Action int

const (
	SelectFeatureAction Action = iota + 1
	RateAction
)

// Element is a single item rendered on the page.
//
// Value carries the button argument: a feature name for [SelectFeatureAction], "0" or "1" for [RateAction].
type Element struct {
	Kind   ElementKind
	Label  string
	Action Action
	Value  string
}

func featureButton(name string) Element {
	return Element{Kind: ButtonElement, Label: name, Action: SelectFeatureAction, Value: name}
}

func rateButton(value string) Element {
	return Element{Kind: ButtonElement, Label: value, Action: RateAction, Value: value}
}

func header(text string) Element { return Element{Kind: HeaderElement, Label: text} }
func lineBreak() Element         { return Element{Kind: LineBreakElement} }
func trackLabel() Element        { return Element{Kind: TrackLabelElement} }

// Page is the ordered body of the interactive page plus the focused button.
type Page struct {
	elements []Element
	focus    int
}

// Clear removes every element.
func (p *Page) Clear() {
	p.elements = nil
	p.focus = 0
}

// Append adds elements to the end of the body.
func (p *Page) Append(elements ...Element) {
	p.elements = append(p.elements, elements...)
}

// Elements returns a copy of the body.
func (p *Page) Elements() []Element {
	out := make([]Element, len(p.elements))
	copy(out, p.elements)
	return out
}

// Buttons returns the button elements in page order.
func (p *Page) Buttons() []Element {
	var buttons []Element
	for _, e := range p.elements {
		if e.Kind == ButtonElement {
			buttons = append(buttons, e)
		}
	}
	return buttons
}

// SetTrackLabel replaces the track label text. It reports false when the page has no label.
func (p *Page) SetTrackLabel(text string) bool {
	for i := range p.elements {
		if p.elements[i].Kind == TrackLabelElement {
			p.elements[i].Label = text
			return true
		}
	}
	return false
}

// TrackLabel returns the current label text.
func (p *Page) TrackLabel() (string, bool) {
	for _, e := range p.elements {
		if e.Kind == TrackLabelElement {
			return e.Label, true
		}
	}
	return "", false
}

// Focused returns the focused button.
func (p *Page) Focused() (Element, bool) {
	buttons := p.Buttons()
	if len(buttons) == 0 {
		return Element{}, false
	}
	return buttons[p.focus], true
}

// FocusNext moves focus right, wrapping around.
func (p *Page) FocusNext() {
	if n := len(p.Buttons()); n > 0 {
		p.focus = (p.focus + 1) % n
	}
}

// FocusPrev moves focus left, wrapping around.
func (p *Page) FocusPrev() {
	if n := len(p.Buttons()); n > 0 {
		p.focus = (p.focus - 1 + n) % n
	}
}

// Render draws the body. Consecutive buttons share a line.
func (p *Page) Render(s *Palette) string {
	var b strings.Builder
	button := 0
	inline := false

	for _, e := range p.elements {
		if e.Kind != ButtonElement && inline {
			b.WriteString("\n")
			inline = false
		}

		switch e.Kind {
		case HeaderElement:
			b.WriteString(s.title.Render(e.Label))
			b.WriteString("\n")
		case ButtonElement:
			if inline {
				b.WriteString(" ")
			}
			label := "[ " + e.Label + " ]"
			if button == p.focus {
				b.WriteString(s.focused.Render(label))
			} else {
				b.WriteString(s.button.Render(label))
			}
			button++
			inline = true
		case LineBreakElement:
			b.WriteString("\n")
		case TrackLabelElement:
			b.WriteString(e.Label)
			b.WriteString("\n")
		}
	}

	if inline {
		b.WriteString("\n")
	}
	return b.String()
}

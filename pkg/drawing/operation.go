package drawing

import (
	"fmt"
	"strings"

	"github.com/matzehuels/lasercard/pkg/errors"
)

// Operation is the laser operation a shape maps to in the cutting software.
type Operation uint8

const (
	// Inherit leaves the operation to the enclosing group.
	Inherit Operation = iota
	// Cut severs the material along the shape's outline.
	Cut
	// Etch marks the filled region without cutting through.
	Etch
)

// Style is the fixed attribute set of an operation.
type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth string
}

var operationStyles = map[Operation]Style{
	Cut:  {Fill: "none", Stroke: "black", StrokeWidth: "0.001in"},
	Etch: {Fill: "grey", Stroke: "none"},
}

// ParseOperation selects an operation by name ("cut" or "etch").
func ParseOperation(name string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cut":
		return Cut, nil
	case "etch":
		return Etch, nil
	}
	return Inherit, errors.New(errors.ErrCodeInvalidConfig, "unknown laser operation %q (must be cut or etch)", name)
}

func (o Operation) String() string {
	switch o {
	case Cut:
		return "cut"
	case Etch:
		return "etch"
	}
	return "inherit"
}

// Class is the CSS class name written for the operation, empty for Inherit.
func (o Operation) Class() string {
	if o == Inherit {
		return ""
	}
	return o.String()
}

// Style returns the operation's attribute set.
func (o Operation) Style() Style {
	return operationStyles[o]
}

// CSS renders the style as a declaration block body.
func (s Style) CSS() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fill: %s; stroke: %s;", s.Fill, s.Stroke)
	if s.StrokeWidth != "" {
		fmt.Fprintf(&b, " stroke-width: %s;", s.StrokeWidth)
	}
	return b.String()
}

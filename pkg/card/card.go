package card

import (
	"io"
	"math"

	"github.com/charmbracelet/log"
	"seehuhn.de/go/geom/matrix"

	"github.com/matzehuels/lasercard/pkg/config"
	"github.com/matzehuels/lasercard/pkg/dovetail"
	"github.com/matzehuels/lasercard/pkg/drawing"
	"github.com/matzehuels/lasercard/pkg/errors"
)

// Element IDs in the assembled document.
const (
	ClipID        = "card-clip"
	CardGroupID   = "card"
	PinsGroupID   = "dovetails"
	TextGroupID   = "text"
	LogoGroupID   = "logo"
	textAnchorEnd = "end"
)

// epsilon absorbs rounding in the pin flare when it equals the tolerance.
const epsilon = 1e-9

// assembler carries the inputs of one Assemble call.
type assembler struct {
	cfg    config.Config
	plan   dovetail.Layout
	assets Assets
	logger *log.Logger
}

// Assemble builds the card document from a validated configuration, its
// dovetail plan and the preloaded logo assets. A nil logger discards output.
func Assemble(cfg config.Config, plan dovetail.Layout, assets Assets, logger *log.Logger) (*drawing.Document, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	a := &assembler{cfg: cfg, plan: plan, assets: assets, logger: logger}

	doc := drawing.NewDocument(cfg.Card.Width, cfg.Card.Height)
	card := a.cardGroup(doc)
	if err := a.checkClip(card); err != nil {
		return nil, err
	}

	text := a.textGroup()
	doc.Append(text)
	logo, err := a.logoGroup()
	if err != nil {
		return nil, err
	}
	if logo != nil {
		doc.Append(logo)
	}
	doc.Append(card)

	logger.Debug("assembled card",
		"pins", len(plan.Pins()),
		"text_lines", len(text.Children),
		"logo", cfg.Logo.Mode())
	return doc, nil
}

// cardGroup registers the clip region and returns the clipped group holding
// the backing strips, the pins and the outline.
func (a *assembler) cardGroup(doc *drawing.Document) *drawing.Group {
	c := a.cfg.Card
	clip := doc.AddClip(drawing.ClipPath{
		ID:    ClipID,
		Shape: drawing.Rect{W: c.Width, H: c.Height, RX: c.Radius},
	})

	blind := a.plan.Blind
	g := &drawing.Group{ID: CardGroupID, Clip: clip}
	g.Append(
		&drawing.Rect{X: 0, Y: 0, W: blind, H: c.Height, Op: drawing.Etch},
		&drawing.Rect{X: c.Width - blind, Y: 0, W: blind, H: c.Height, Op: drawing.Etch},
	)

	pins := &drawing.Group{ID: PinsGroupID, Op: drawing.Etch}
	for _, p := range a.plan.Pins() {
		pins.Append(&drawing.Polygon{Points: p.Points()})
	}
	g.Append(pins)

	g.Append(&drawing.Rect{W: c.Width, H: c.Height, RX: c.Radius, Op: drawing.Cut})
	return g
}

// checkClip verifies the clipped geometry stays on the card. Pin tips flare
// past the top and bottom edges and are trimmed by the clip, so
// the tolerance is the larger of the corner radius and that flare.
func (a *assembler) checkClip(g *drawing.Group) error {
	c := a.cfg.Card
	tol := math.Max(c.Radius, (a.plan.Large-a.plan.Small)/2) + epsilon
	card := drawing.Box{MaxX: c.Width, MaxY: c.Height}

	got := drawing.Bounds(g.Children, matrix.Identity)
	if !got.Within(card, tol) {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"card geometry [%g,%g]-[%g,%g] exceeds the %gx%g card (tolerance %g)",
			got.MinX, got.MinY, got.MaxX, got.MaxY, c.Width, c.Height, tol)
	}
	return nil
}

// textGroup lays out the title, subtitle and the contact block. Contact
// lines are placed bottom-up so they read top to bottom in configured order.
func (a *assembler) textGroup() *drawing.Group {
	t := a.cfg.Text
	x := a.cfg.TextRight()

	line := func(content string, size, y float64, smallCaps bool) *drawing.Text {
		return &drawing.Text{
			X:         x,
			Y:         y,
			Content:   content,
			Size:      size,
			Family:    t.FontFamily,
			Fill:      t.Fill,
			Anchor:    textAnchorEnd,
			SmallCaps: smallCaps,
		}
	}

	g := &drawing.Group{ID: TextGroupID}
	if t.Title.Text != "" {
		g.Append(line(t.Title.Text, t.Title.Size, t.Title.Y, t.Title.SmallCaps))
	}
	if t.Subtitle.Text != "" {
		g.Append(line(t.Subtitle.Text, t.Subtitle.Size, t.Subtitle.Y, t.Subtitle.SmallCaps))
	}

	lines := t.Info.Lines
	for i := range lines {
		content := lines[len(lines)-1-i]
		y := a.cfg.Card.Height - t.BottomMargin - float64(i)*t.LineHeight
		g.Append(line(content, t.Info.Size, y, t.Info.SmallCaps))
	}
	return g
}

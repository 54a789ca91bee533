package config

import (
	"math"

	"github.com/matzehuels/lasercard/pkg/errors"
)

// Validate checks every invariant of cfg and reports all violations at once
// as an INVALID_CONFIG error. It returns nil for a usable configuration.
func Validate(cfg Config) error {
	var v errors.ValidationError

	validateCard(&v, cfg.Card)
	validateDovetail(&v, cfg.Dovetail, cfg.Card)
	validateText(&v, cfg)
	validateLogo(&v, cfg.Logo)

	return v.Err()
}

func validateCard(v *errors.ValidationError, c Card) {
	if !positive(c.Width) {
		v.Add("card.width must be > 0, got %g", c.Width)
	}
	if !positive(c.Height) {
		v.Add("card.height must be > 0, got %g", c.Height)
	}
	if !finite(c.Radius) || c.Radius < 0 {
		v.Add("card.radius must be >= 0, got %g", c.Radius)
	} else if limit := math.Min(c.Width, c.Height) / 2; c.Radius > limit {
		v.Add("card.radius %g exceeds half the shorter side (%g)", c.Radius, limit)
	}
	if !finite(c.Margin) || c.Margin < 0 {
		v.Add("card.margin must be >= 0, got %g", c.Margin)
	}
}

func validateDovetail(v *errors.ValidationError, d Dovetail, c Card) {
	if d.Count < 2 {
		v.Add("dovetail.count must be >= 2, got %d", d.Count)
	}
	if !positive(d.Depth) {
		v.Add("dovetail.depth must be > 0, got %g", d.Depth)
	}
	if !finite(d.Angle) || d.Angle <= 0 || d.Angle >= 90 {
		v.Add("dovetail.angle must be in (0, 90) degrees, got %g", d.Angle)
	}
	if !positive(d.NeckHeight) {
		v.Add("dovetail.neck_height must be > 0, got %g", d.NeckHeight)
	} else if positive(c.Height) && d.Count >= 2 && float64(d.Count)*d.NeckHeight > c.Height {
		v.Add("dovetail.neck_height %g times %d pins exceeds card.height %g", d.NeckHeight, d.Count, c.Height)
	}
	if !finite(d.BlindFraction) || d.BlindFraction <= 0 || d.BlindFraction > 1 {
		v.Add("dovetail.blind_fraction must be in (0, 1], got %g", d.BlindFraction)
	}

	// Pins from the left and right edges must not meet in the middle.
	if positive(d.Depth) && positive(c.Width) && finite(d.BlindFraction) {
		reach := 2 * (d.BlindThickness() + d.Depth)
		if reach >= c.Width {
			v.Add("dovetails reach %g across a card only %g wide", reach, c.Width)
		}
	}
}

func validateText(v *errors.ValidationError, cfg Config) {
	t := cfg.Text
	if t.FontFamily == "" {
		v.Add("text.font_family cannot be empty")
	}
	if !finite(t.RightMargin) || t.RightMargin < 0 {
		v.Add("text.right_margin must be >= 0, got %g", t.RightMargin)
	}
	if !finite(t.BottomMargin) || t.BottomMargin < 0 {
		v.Add("text.bottom_margin must be >= 0, got %g", t.BottomMargin)
	}
	if t.Title.Text != "" && !positive(t.Title.Size) {
		v.Add("text.title.size must be > 0, got %g", t.Title.Size)
	}
	if t.Subtitle.Text != "" && !positive(t.Subtitle.Size) {
		v.Add("text.subtitle.size must be > 0, got %g", t.Subtitle.Size)
	}
	if len(t.Info.Lines) > 0 {
		if !positive(t.Info.Size) {
			v.Add("text.info.size must be > 0, got %g", t.Info.Size)
		}
		if !positive(t.LineHeight) {
			v.Add("text.line_height must be > 0, got %g", t.LineHeight)
		}
	}
}

func validateLogo(v *errors.ValidationError, l Logo) {
	if l.Asset != "" && l.Image != "" {
		v.Add("logo.asset and logo.image are mutually exclusive")
	}

	switch l.Mode() {
	case LogoVector:
		if !positive(l.Scale) {
			v.Add("logo.scale must be > 0, got %g", l.Scale)
		}
		if !finite(l.Circle.R) || l.Circle.R < 0 {
			v.Add("logo.circle.r must be >= 0, got %g", l.Circle.R)
		}
		if len(l.CutPaths) == 0 && len(l.EtchPaths) == 0 && l.Circle.R == 0 {
			v.Add("logo.asset is set but no cut_paths, etch_paths or circle are configured")
		}
		for _, id := range append(append([]string(nil), l.CutPaths...), l.EtchPaths...) {
			if err := errors.ValidateElementID(id); err != nil {
				v.Add("logo: %s", errors.UserMessage(err))
			}
		}
	case LogoRaster:
		if !positive(l.Width) || !positive(l.Height) {
			v.Add("logo.width and logo.height must be > 0, got %gx%g", l.Width, l.Height)
		}
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func positive(f float64) bool {
	return finite(f) && f > 0
}

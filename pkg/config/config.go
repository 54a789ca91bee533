package config

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the card width: 3.5in, the North American card size.
	DefaultWidth = 88.9

	// DefaultHeight is the card height: 2in.
	DefaultHeight = 50.8

	// DefaultRadius is the outline corner radius.
	DefaultRadius = 3.0

	// DefaultMargin is the distance between the right card edge and the
	// right-aligned text.
	DefaultMargin = 10.0

	// DefaultPinDepth is the horizontal extent of each dovetail pin.
	DefaultPinDepth = 5.0

	// DefaultPinCount is the number of pins per edge.
	DefaultPinCount = 4

	// DefaultPinAngle is the taper half-angle in degrees.
	DefaultPinAngle = 9.5

	// DefaultNeckHeight is the pin width at the joint line.
	DefaultNeckHeight = 2.3

	// DefaultBlindFraction is the share of the pin depth left as solid
	// backing in the half-blind joint.
	DefaultBlindFraction = 1.0 / 3.0

	// DefaultFontFamily is used for every text line.
	DefaultFontFamily = "Times New Roman"
)

// =============================================================================
// Records
// =============================================================================

// Config is the complete set of generation parameters.
type Config struct {
	Card     Card     `toml:"card"`
	Dovetail Dovetail `toml:"dovetail"`
	Text     Text     `toml:"text"`
	Logo     Logo     `toml:"logo"`
}

// Card describes the rounded-rectangle outline.
type Card struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Radius float64 `toml:"radius"`
	Margin float64 `toml:"margin"`
}

// Dovetail describes the half-blind pins cut along both vertical edges.
type Dovetail struct {
	Depth         float64 `toml:"depth"`
	Count         int     `toml:"count"`
	Angle         float64 `toml:"angle"`
	NeckHeight    float64 `toml:"neck_height"`
	BlindFraction float64 `toml:"blind_fraction"`
}

// BlindThickness is the width of the solid backing strip behind the pins.
func (d Dovetail) BlindThickness() float64 {
	return d.Depth * d.BlindFraction
}

// Line is a single styled text line.
type Line struct {
	Text      string  `toml:"text"`
	Size      float64 `toml:"size"`
	Y         float64 `toml:"y"`
	SmallCaps bool    `toml:"small_caps"`
}

// InfoBlock is the contact block stacked upward from the bottom margin.
// Lines are listed top to bottom.
type InfoBlock struct {
	Lines     []string `toml:"lines"`
	Size      float64  `toml:"size"`
	SmallCaps bool     `toml:"small_caps"`
}

// Text holds typography and the card's wording.
type Text struct {
	FontFamily   string    `toml:"font_family"`
	Fill         string    `toml:"fill"`
	RightMargin  float64   `toml:"right_margin"` // 0 falls back to Card.Margin
	BottomMargin float64   `toml:"bottom_margin"`
	LineHeight   float64   `toml:"line_height"`
	Title        Line      `toml:"title"`
	Subtitle     Line      `toml:"subtitle"`
	Info         InfoBlock `toml:"info"`
}

// Circle is the decorative ring etched around a vector logo, in the logo's
// own coordinate system.
type Circle struct {
	CX float64 `toml:"cx"`
	CY float64 `toml:"cy"`
	R  float64 `toml:"r"`
}

// LogoMode selects how the logo is embedded.
type LogoMode string

const (
	LogoNone   LogoMode = "none"
	LogoVector LogoMode = "vector"
	LogoRaster LogoMode = "raster"
)

// Logo places embedded artwork on the card.
//
// When Asset is set, the named sub-paths are copied from that SVG file and
// drawn under a translate(X,Y) scale(Scale) transform. Otherwise, when Image
// is set, the raster file is embedded at (X, Y) with size Width×Height.
type Logo struct {
	Asset     string   `toml:"asset"`
	Image     string   `toml:"image"`
	X         float64  `toml:"x"`
	Y         float64  `toml:"y"`
	Scale     float64  `toml:"scale"`
	Width     float64  `toml:"width"`
	Height    float64  `toml:"height"`
	Circle    Circle   `toml:"circle"`
	CutPaths  []string `toml:"cut_paths"`
	EtchPaths []string `toml:"etch_paths"`
	Strict    bool     `toml:"strict"`
}

// Mode reports which embedding the logo settings select.
func (l Logo) Mode() LogoMode {
	switch {
	case l.Asset != "":
		return LogoVector
	case l.Image != "":
		return LogoRaster
	default:
		return LogoNone
	}
}

// TextRight returns the x coordinate text lines are right-aligned to.
func (c Config) TextRight() float64 {
	margin := c.Text.RightMargin
	if margin == 0 {
		margin = c.Card.Margin
	}
	return c.Card.Width - margin
}

// Default returns the parameters of the reference card.
func Default() Config {
	return Config{
		Card: Card{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Radius: DefaultRadius,
			Margin: DefaultMargin,
		},
		Dovetail: Dovetail{
			Depth:         DefaultPinDepth,
			Count:         DefaultPinCount,
			Angle:         DefaultPinAngle,
			NeckHeight:    DefaultNeckHeight,
			BlindFraction: DefaultBlindFraction,
		},
		Text: Text{
			FontFamily:   DefaultFontFamily,
			Fill:         "black",
			BottomMargin: 4,
			LineHeight:   5,
			Title:        Line{Text: "Maxwell Made", Size: 10, Y: 12.6, SmallCaps: true},
			Subtitle:     Line{Text: ".ca", Size: 5, Y: 18.5},
			Info: InfoBlock{
				Lines: []string{
					"Michael Maxwell",
					"Furniture Maker",
					"Ottawa, ON",
					"613 324 3802",
				},
				Size:      4,
				SmallCaps: true,
			},
		},
		Logo: Logo{
			X:      11,
			Y:      18,
			Scale:  1,
			Width:  30,
			Height: 30,
			Strict: true,
		},
	}
}

// =============================================================================
// Overrides
// =============================================================================

// Override adjusts a configuration after the file overlay.
type Override func(*Config)

func WithWidth(v float64) Override  { return func(c *Config) { c.Card.Width = v } }
func WithHeight(v float64) Override { return func(c *Config) { c.Card.Height = v } }
func WithRadius(v float64) Override { return func(c *Config) { c.Card.Radius = v } }
func WithPins(n int) Override       { return func(c *Config) { c.Dovetail.Count = n } }
func WithDepth(v float64) Override  { return func(c *Config) { c.Dovetail.Depth = v } }
func WithAngle(v float64) Override  { return func(c *Config) { c.Dovetail.Angle = v } }
func WithNeck(v float64) Override   { return func(c *Config) { c.Dovetail.NeckHeight = v } }
func WithBlind(v float64) Override  { return func(c *Config) { c.Dovetail.BlindFraction = v } }

// WithLenientLogo makes missing logo sub-paths a warning instead of an error.
func WithLenientLogo() Override { return func(c *Config) { c.Logo.Strict = false } }

// Resolve builds the effective configuration: defaults, then the file at
// path (if any), then overrides, then validation.
func Resolve(path string, overrides ...Override) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return Config{}, err
	}
	for _, o := range overrides {
		o(&cfg)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

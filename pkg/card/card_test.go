package card

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/matrix"

	"github.com/matzehuels/lasercard/pkg/asset"
	"github.com/matzehuels/lasercard/pkg/config"
	"github.com/matzehuels/lasercard/pkg/dovetail"
	"github.com/matzehuels/lasercard/pkg/drawing"
	"github.com/matzehuels/lasercard/pkg/errors"
)

const logoSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <path id="outer" d="M10 10 L90 10 L90 90 Z"/>
  <path id="grain" d="M20 50 L80 50"/>
  <path id="mark" d="M45 45 h10 v10 h-10 Z"/>
</svg>`

func assemble(t *testing.T, cfg config.Config) *drawing.Document {
	t.Helper()
	plan, err := dovetail.Compute(cfg.Card, cfg.Dovetail)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	assets, err := LoadAssets(cfg.Logo)
	if err != nil {
		t.Fatalf("LoadAssets() error = %v", err)
	}
	doc, err := Assemble(cfg, plan, assets, nil)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	return doc
}

func writeLogo(t *testing.T) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "logo.svg")
	if err := os.WriteFile(file, []byte(logoSVG), 0644); err != nil {
		t.Fatal(err)
	}
	return file
}

func vectorConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.Logo.Asset = writeLogo(t)
	cfg.Logo.Scale = 0.3
	cfg.Logo.Circle = config.Circle{CX: 50, CY: 50, R: 48}
	cfg.Logo.CutPaths = []string{"outer"}
	cfg.Logo.EtchPaths = []string{"grain", "mark"}
	return cfg
}

func rootIDs(doc *drawing.Document) []string {
	var ids []string
	for _, n := range doc.Root {
		if g, ok := n.(*drawing.Group); ok {
			ids = append(ids, g.ID)
		}
	}
	return ids
}

func TestAssembleStructure(t *testing.T) {
	cfg := config.Default()
	doc := assemble(t, cfg)

	if diff := cmp.Diff([]string{TextGroupID, CardGroupID}, rootIDs(doc)); diff != "" {
		t.Errorf("root groups mismatch (-want +got):\n%s", diff)
	}
	if len(doc.Clips) != 1 || doc.Clips[0].ID != ClipID {
		t.Fatalf("clips = %+v", doc.Clips)
	}
	if clip := doc.Clips[0].Shape; clip.W != cfg.Card.Width || clip.H != cfg.Card.Height || clip.RX != cfg.Card.Radius {
		t.Errorf("clip shape = %+v", clip)
	}

	card := doc.Find(CardGroupID)
	if card.Clip != ClipID {
		t.Errorf("card clip = %q, want %q", card.Clip, ClipID)
	}
	if len(card.Children) != 4 {
		t.Fatalf("card children = %d, want 4 (2 strips, pins, outline)", len(card.Children))
	}

	blind := cfg.Dovetail.BlindThickness()
	left := card.Children[0].(*drawing.Rect)
	right := card.Children[1].(*drawing.Rect)
	if left.X != 0 || left.W != blind || left.H != cfg.Card.Height || left.Op != drawing.Etch {
		t.Errorf("left strip = %+v", left)
	}
	if math.Abs(right.X-(cfg.Card.Width-blind)) > 1e-12 || right.W != blind || right.Op != drawing.Etch {
		t.Errorf("right strip = %+v", right)
	}

	outline := card.Children[3].(*drawing.Rect)
	want := drawing.Rect{W: cfg.Card.Width, H: cfg.Card.Height, RX: cfg.Card.Radius, Op: drawing.Cut}
	if *outline != want {
		t.Errorf("outline = %+v, want %+v", *outline, want)
	}

	pins := doc.Find(PinsGroupID)
	if pins == nil || len(pins.Children) != 2*cfg.Dovetail.Count {
		t.Fatalf("pins group = %+v", pins)
	}
	if pins.Op != drawing.Etch {
		t.Errorf("pins op = %v, want etch", pins.Op)
	}
}

func TestAssemblePinPlacement(t *testing.T) {
	cfg := config.Default()
	doc := assemble(t, cfg)
	pins := doc.Find(PinsGroupID).Children

	blind := cfg.Dovetail.BlindThickness()
	for i := 0; i < len(pins); i += 2 {
		right := pins[i].(*drawing.Polygon).Points
		left := pins[i+1].(*drawing.Polygon).Points
		if math.Abs(right[0].X-(cfg.Card.Width-blind)) > 1e-9 || right[1].X >= right[0].X {
			t.Errorf("right pin %d should be anchored at width-blind pointing left: %v", i/2, right)
		}
		if math.Abs(left[0].X-blind) > 1e-9 || left[1].X <= left[0].X {
			t.Errorf("left pin %d should be anchored at blind pointing right: %v", i/2, left)
		}
	}
}

func TestAssembleText(t *testing.T) {
	cfg := config.Default()
	doc := assemble(t, cfg)
	texts := doc.Find(TextGroupID).Children
	if len(texts) != 6 {
		t.Fatalf("text lines = %d, want 6", len(texts))
	}

	type line struct {
		Content   string
		Y, Size   float64
		SmallCaps bool
	}
	var got []line
	for _, n := range texts {
		txt := n.(*drawing.Text)
		got = append(got, line{txt.Content, math.Round(txt.Y*1000) / 1000, txt.Size, txt.SmallCaps})
		if math.Abs(txt.X-78.9) > 1e-9 || txt.Anchor != "end" || txt.Family != "Times New Roman" || txt.Fill != "black" {
			t.Errorf("text %q placement/style = %+v", txt.Content, txt)
		}
	}

	want := []line{
		{"Maxwell Made", 12.6, 10, true},
		{".ca", 18.5, 5, false},
		{"613 324 3802", 46.8, 4, true},
		{"Ottawa, ON", 41.8, 4, true},
		{"Furniture Maker", 36.8, 4, true},
		{"Michael Maxwell", 31.8, 4, true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("text mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleInfoReadsTopToBottom(t *testing.T) {
	cfg := config.Default()
	cfg.Text.Info.Lines = []string{"first", "second", "third"}
	doc := assemble(t, cfg)

	y := map[string]float64{}
	for _, n := range doc.Find(TextGroupID).Children {
		txt := n.(*drawing.Text)
		y[txt.Content] = txt.Y
	}
	if !(y["first"] < y["second"] && y["second"] < y["third"]) {
		t.Errorf("info lines out of order: %v", y)
	}
}

func TestAssembleSkipsEmptyTitle(t *testing.T) {
	cfg := config.Default()
	cfg.Text.Title = config.Line{}
	cfg.Text.Subtitle = config.Line{}
	cfg.Text.Info.Lines = nil
	doc := assemble(t, cfg)
	if n := len(doc.Find(TextGroupID).Children); n != 0 {
		t.Errorf("text lines = %d, want 0", n)
	}
}

func TestAssembleVectorLogo(t *testing.T) {
	cfg := vectorConfig(t)
	doc := assemble(t, cfg)

	if diff := cmp.Diff([]string{TextGroupID, LogoGroupID, CardGroupID}, rootIDs(doc)); diff != "" {
		t.Errorf("root groups mismatch (-want +got):\n%s", diff)
	}

	logo := doc.Find(LogoGroupID)
	if want := [6]float64{0.3, 0, 0, 0.3, 11, 18}; [6]float64(logo.Transform) != want {
		t.Errorf("logo transform = %v, want %v", logo.Transform, want)
	}
	if len(logo.Children) != 4 {
		t.Fatalf("logo children = %d, want 4", len(logo.Children))
	}

	circle := logo.Children[0].(*drawing.Circle)
	if *circle != (drawing.Circle{CX: 50, CY: 50, R: 48, Op: drawing.Etch}) {
		t.Errorf("circle = %+v", circle)
	}

	wantPaths := []drawing.Path{
		{ID: "outer", D: "M10 10 L90 10 L90 90 Z", Op: drawing.Cut},
		{ID: "grain", D: "M20 50 L80 50", Op: drawing.Etch},
		{ID: "mark", D: "M45 45 h10 v10 h-10 Z", Op: drawing.Etch},
	}
	var gotPaths []drawing.Path
	for _, n := range logo.Children[1:] {
		gotPaths = append(gotPaths, *n.(*drawing.Path))
	}
	if diff := cmp.Diff(wantPaths, gotPaths); diff != "" {
		t.Errorf("logo paths mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAssetsStrictMissing(t *testing.T) {
	cfg := vectorConfig(t)
	cfg.Logo.EtchPaths = []string{"grain", "signature"}

	_, err := LoadAssets(cfg.Logo)
	if !errors.Is(err, errors.ErrCodeAssetNotFound) {
		t.Fatalf("LoadAssets() error = %v, want ASSET_NOT_FOUND", err)
	}
}

func TestLoadAssetsLenientMissing(t *testing.T) {
	cfg := vectorConfig(t)
	cfg.Logo.CutPaths = []string{"outer", "rim"}
	cfg.Logo.Strict = false

	assets, err := LoadAssets(cfg.Logo)
	if err != nil {
		t.Fatalf("LoadAssets() error = %v", err)
	}
	if diff := cmp.Diff([]string{"rim"}, assets.Missing); diff != "" {
		t.Errorf("missing mismatch (-want +got):\n%s", diff)
	}
	if len(assets.Cut) != 1 || assets.Cut[0].ID != "outer" {
		t.Errorf("cut = %+v", assets.Cut)
	}
}

func TestLoadAssetsMissingFile(t *testing.T) {
	cfg := vectorConfig(t)
	cfg.Logo.Asset = filepath.Join(t.TempDir(), "nope.svg")
	if _, err := LoadAssets(cfg.Logo); !errors.Is(err, errors.ErrCodeAssetNotFound) {
		t.Fatalf("LoadAssets() error = %v, want ASSET_NOT_FOUND", err)
	}
}

func TestAssembleRasterLogo(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(file, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Logo.Image = file
	doc := assemble(t, cfg)

	logo := doc.Find(LogoGroupID)
	if logo == nil || len(logo.Children) != 1 {
		t.Fatalf("logo group = %+v", logo)
	}
	img := logo.Children[0].(*drawing.Image)
	raster, _ := asset.DecodeRaster(buf.Bytes())
	want := drawing.Image{X: 11, Y: 18, W: 30, H: 30, Href: raster.DataURI()}
	if *img != want {
		t.Errorf("image = %+v", img)
	}
}

func TestAssembleRasterNotLoaded(t *testing.T) {
	cfg := config.Default()
	cfg.Logo.Image = "logo.png"
	plan, _ := dovetail.Compute(cfg.Card, cfg.Dovetail)
	if _, err := Assemble(cfg, plan, Assets{}, nil); !errors.Is(err, errors.ErrCodeAssetNotFound) {
		t.Fatalf("Assemble() error = %v, want ASSET_NOT_FOUND", err)
	}
}

func TestAssembleClipInvariant(t *testing.T) {
	for _, mutate := range []func(*config.Config){
		func(*config.Config) {},
		func(c *config.Config) { c.Card.Radius = 0 },
		func(c *config.Config) { c.Dovetail.Count = 9; c.Dovetail.Angle = 30 },
	} {
		cfg := config.Default()
		mutate(&cfg)
		doc := assemble(t, cfg)

		card := doc.Find(CardGroupID)
		box := drawing.Bounds(card.Children, matrix.Identity)
		plan, _ := dovetail.Compute(cfg.Card, cfg.Dovetail)
		tol := math.Max(cfg.Card.Radius, (plan.Large-plan.Small)/2) + epsilon
		if !box.Within(drawing.Box{MaxX: cfg.Card.Width, MaxY: cfg.Card.Height}, tol) {
			t.Errorf("geometry %+v escapes the card", box)
		}
	}
}

func TestAssembleRejectsGeometryOffCard(t *testing.T) {
	cfg := config.Default()
	wide := cfg.Card
	wide.Width = 200
	plan, err := dovetail.Compute(wide, cfg.Dovetail)
	if err != nil {
		t.Fatal(err)
	}

	_, err = Assemble(cfg, plan, Assets{}, nil)
	if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Fatalf("Assemble() error = %v, want INVALID_GEOMETRY", err)
	}
}

func TestAssembleIsIdempotent(t *testing.T) {
	cfg := vectorConfig(t)
	a := drawing.RenderSVG(assemble(t, cfg))
	b := drawing.RenderSVG(assemble(t, cfg))
	if !bytes.Equal(a, b) {
		t.Error("two runs with identical inputs produced different SVG")
	}
}

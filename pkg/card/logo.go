package card

import (
	"seehuhn.de/go/geom/matrix"

	"github.com/matzehuels/lasercard/pkg/asset"
	"github.com/matzehuels/lasercard/pkg/config"
	"github.com/matzehuels/lasercard/pkg/drawing"
	"github.com/matzehuels/lasercard/pkg/errors"
)

// Assets holds the logo artwork resolved from the configuration.
type Assets struct {
	Cut    []asset.Element // vector mode: through-cut sub-paths
	Etch   []asset.Element // vector mode: etched sub-paths
	Raster *asset.Raster   // raster mode
	// Missing lists ids skipped under the lenient policy.
	Missing []string
}

// LoadAssets reads the files the logo settings refer to and resolves the
// configured sub-paths. Under the strict policy a missing sub-path is an
// ASSET_NOT_FOUND error.
func LoadAssets(l config.Logo) (Assets, error) {
	switch l.Mode() {
	case config.LogoVector:
		paths, err := asset.ReadPaths(l.Asset)
		if err != nil {
			return Assets{}, err
		}
		policy := asset.PolicyFor(l.Strict)

		var a Assets
		var missing []string
		if a.Cut, missing, err = paths.Lookup(l.CutPaths, policy); err != nil {
			return Assets{}, err
		}
		a.Missing = append(a.Missing, missing...)
		if a.Etch, missing, err = paths.Lookup(l.EtchPaths, policy); err != nil {
			return Assets{}, err
		}
		a.Missing = append(a.Missing, missing...)
		return a, nil

	case config.LogoRaster:
		r, err := asset.ReadRaster(l.Image)
		if err != nil {
			return Assets{}, err
		}
		return Assets{Raster: &r}, nil
	}
	return Assets{}, nil
}

// logoGroup returns the logo group, or nil when no logo is configured.
func (a *assembler) logoGroup() (*drawing.Group, error) {
	l := a.cfg.Logo
	for _, id := range a.assets.Missing {
		a.logger.Warn("logo sub-path not found, skipping", "id", id, "asset", l.Asset)
	}

	switch l.Mode() {
	case config.LogoVector:
		g := &drawing.Group{
			ID:        LogoGroupID,
			Transform: matrix.Matrix{l.Scale, 0, 0, l.Scale, l.X, l.Y},
		}
		if l.Circle.R > 0 {
			g.Append(&drawing.Circle{CX: l.Circle.CX, CY: l.Circle.CY, R: l.Circle.R, Op: drawing.Etch})
		}
		for _, e := range a.assets.Cut {
			g.Append(&drawing.Path{ID: e.ID, D: e.D, Op: drawing.Cut})
		}
		for _, e := range a.assets.Etch {
			g.Append(&drawing.Path{ID: e.ID, D: e.D, Op: drawing.Etch})
		}
		if len(g.Children) == 0 {
			a.logger.Warn("logo has no drawable elements", "asset", l.Asset)
		}
		return g, nil

	case config.LogoRaster:
		if a.assets.Raster == nil {
			return nil, errors.New(errors.ErrCodeAssetNotFound, "logo image %s was not loaded", l.Image)
		}
		g := &drawing.Group{ID: LogoGroupID}
		g.Append(&drawing.Image{X: l.X, Y: l.Y, W: l.Width, H: l.Height, Href: a.assets.Raster.DataURI()})
		return g, nil
	}
	return nil, nil
}

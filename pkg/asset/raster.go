package asset

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/lasercard/pkg/errors"
)

// Raster is an encoded image ready for inline embedding.
type Raster struct {
	Format string // png, jpeg, gif, webp or bmp
	Width  int    // pixels
	Height int    // pixels
	Data   []byte
}

// ReadRaster reads and validates the named image file.
func ReadRaster(file string) (Raster, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return Raster{}, errors.Wrap(errors.ErrCodeAssetNotFound, err, "logo image %s", file)
		}
		return Raster{}, errors.Wrap(errors.ErrCodeIO, err, "read logo image %s", file)
	}
	r, err := DecodeRaster(data)
	if err != nil {
		return Raster{}, errors.Wrap(errors.ErrCodeInvalidAsset, err, "logo image %s", file)
	}
	return r, nil
}

// DecodeRaster identifies the image format of data from its header.
func DecodeRaster(data []byte) (Raster, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Raster{}, errors.Wrap(errors.ErrCodeInvalidAsset, err, "decode image")
	}
	return Raster{Format: format, Width: cfg.Width, Height: cfg.Height, Data: data}, nil
}

// MIMEType returns the media type of the image.
func (r Raster) MIMEType() string {
	return "image/" + r.Format
}

// DataURI returns the image as a base64 data URI.
func (r Raster) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", r.MIMEType(), base64.StdEncoding.EncodeToString(r.Data))
}

// Package asset loads logo artwork for embedding in a card.
//
// Vector logos are SVG files whose <path> elements carry stable id
// attributes. [ReadPaths] collects the path data by id so the card can copy
// selected sub-paths into its own drawing; [Paths.Lookup] resolves the
// configured ids under a [Policy] that decides whether a missing id is fatal.
//
// Raster logos (PNG, JPEG, GIF, WebP or BMP) are validated by decoding their
// header and embedded inline as a base64 data URI, see [ReadRaster].
package asset

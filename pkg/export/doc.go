// Package export turns an assembled card into files for laser software.
//
// SVG is written by the drawing package; this package adds the other sinks:
//
//   - [ToPDF] and [ToPNG] pipe the SVG through rsvg-convert, which must be
//     installed separately. Without it they return an UNSUPPORTED error.
//   - [DXF] writes outline, strips, pins and logo circle as lines and arcs
//     on the CUT and ETCH layers.
//
// [WriteFile] stores any artifact atomically, so an interrupted run never
// leaves a truncated card behind.
package export

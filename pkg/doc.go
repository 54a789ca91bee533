// Package pkg provides the core libraries for lasercard.
//
// # Overview
//
// Lasercard turns a small set of parameters into the artwork for a laser-cut
// business card: a rounded outline with half-blind dovetail pins along both
// short edges, right-aligned contact text and a logo. The pkg directory is
// organized by pipeline stage:
//
//  1. [config] - Parameters, defaults, TOML/HCL files and validation
//  2. [dovetail] - Pin geometry for both edges
//  3. [asset] - Logo loading (SVG sub-paths, PNG/JPEG data URIs)
//  4. [card] - Assembly of the drawing tree with clipping
//  5. [drawing] - The drawing tree and its SVG serializer
//  6. [export] - PDF, PNG and DXF conversion plus atomic file writes
//  7. [pipeline] - Orchestration (config → layout → assets → assemble → render)
//
// # Architecture
//
//	config.Resolve (defaults ← file ← flags)
//	         ↓
//	dovetail.Compute (pin polygons)
//	         ↓
//	card.LoadAssets → card.Assemble (drawing.Document)
//	         ↓
//	drawing.RenderSVG → export (PDF/PNG/DXF)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    ConfigPath: "examples/card.toml",
//	    Formats:    []string{pipeline.FormatSVG, pipeline.FormatDXF},
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("card.svg", result.Artifacts[pipeline.FormatSVG], 0644)
//
// Nothing in pkg writes to disk except [export.WriteFile], which the CLI
// calls once every artifact has rendered.
package pkg

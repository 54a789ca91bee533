// Package drawing holds the typed drawing tree of a card and its SVG writer.
//
// A [Document] is a list of top-level nodes plus named clip regions. Nodes are
// [Group], [Rect], [Polygon], [Path], [Circle], [Text] and [Image]. Shapes and
// groups carry an [Operation], either [Cut] or [Etch], that laser software
// maps to a through-cut or a surface etch; shapes left at [Inherit] take the
// operation of their enclosing group.
//
// [RenderSVG] writes the tree with millimetre units, a viewBox matching the
// card, and one CSS class per operation:
//
//	.cut  { fill: none; stroke: black; stroke-width: 0.001in; }
//	.etch { fill: grey; stroke: none; }
//
// Output is a pure function of the tree, so identical inputs produce
// byte-identical files.
//
// [Walk] and [Bounds] traverse the tree with accumulated transforms; the card
// assembler uses them to check that clipped geometry stays on the card.
package drawing

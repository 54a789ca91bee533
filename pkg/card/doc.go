// Package card assembles the drawing tree of a laser-cut business card.
//
// [Assemble] composes, in order:
//
//  1. a rounded-rectangle clip region and a cut outline, both exactly the
//     card's bounding box
//  2. two etched backing strips, one blind thickness wide, along the left
//     and right edges
//  3. the dovetail pins of a [dovetail.Layout], right pin then left pin for
//     each center
//  4. the title, subtitle and contact lines, right-aligned
//  5. the logo: vector sub-paths under a translate+scale transform, or an
//     inline raster image
//
// The outline, strips and pins live in a group clipped to the card so no
// cut or etch bleeds past the rounded corners. Text and logo are appended to
// the document root.
//
// Logo files are read up front by [LoadAssets], so a missing file or
// sub-path fails before anything is written.
package card

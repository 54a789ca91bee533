// Package config holds the immutable parameter records that drive card
// generation.
//
// A [Config] groups four records: [Card] (outline dimensions), [Dovetail]
// (joinery geometry), [Text] (typography and contact lines) and [Logo]
// (embedded artwork). All lengths are millimetres, angles are degrees.
//
// # Resolution Order
//
// A configuration is built exactly once per run:
//
//  1. [Default] supplies the values of the reference card.
//  2. [Load] overlays a TOML (.toml) or HCL (.hcl) file; keys that are
//     absent keep their default.
//  3. [Override] functions (usually from command-line flags) are applied.
//  4. [Validate] rejects invalid geometry before anything is computed.
//
// [Resolve] performs all four steps. The resulting value is passed around by
// value and never mutated.
//
// # File Formats
//
// TOML:
//
//	[card]
//	width = 88.9
//
//	[dovetail]
//	count = 5
//
// HCL:
//
//	card {
//	  width = 88.9
//	}
//	dovetail {
//	  count = 5
//	}
package config

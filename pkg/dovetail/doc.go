// Package dovetail computes the half-blind dovetail pins cut along the
// vertical edges of a card.
//
// # Geometry
//
// A pin is a trapezoid, narrow at the joint line and flared at its buried
// tip. The neck height (small) and the taper half-angle fix the tip height:
//
//	large = small + 2·depth·tan(angle)
//
// [PinOutline] returns the four corners of one pin anchored at (x, y), where
// y is the pin's vertical center and the direction selects which way the tip
// points:
//
//	(x, y-small/2) → (x+dir·depth, y-large/2) → (x+dir·depth, y+large/2) → (x, y+small/2)
//
// [PinCenters] spreads count pins evenly so the first and last necks touch
// the top and bottom card edges:
//
//	spacing  = (height - small) / (count - 1)
//	center_i = small/2 + i·spacing
//
// A count below two has no spacing and is rejected.
//
// # Edge Plan
//
// [Compute] combines both functions into a [Layout]: the backing strip width
// (depth × blind fraction), the tip height, the centers, and the pins for
// both edges. Right-edge pins are anchored at width-blind pointing left; left
// pins at blind pointing right. The two sets are mirror images of each other
// about the card's vertical center line.
//
//	plan, err := dovetail.Compute(cfg.Card, cfg.Dovetail)
//	if err != nil {
//	    return err
//	}
//	for _, p := range plan.Right {
//	    draw(p.Points())
//	}
package dovetail

// Package layout places the flowers of a bouquet.
//
// [Build] turns a [bouquet.Spec] into a [Layout]: one [PlacedFlower] per
// flower with a position, rotation, scale, and stacking order, plus the
// matching foliage from package greenery. The result depends only on the
// spec, so a bouquet opened from a share link weeks later renders exactly as
// it did when it was composed.
//
// # Algorithm
//
//  1. Order flowers with [bouquet.Spec.Sequence]: identical flowers are
//     adjacent and large flowers come first.
//  2. Flower i takes slot i mod len(table) from a hand-authored slot table
//     shaped like a dome. When the bouquet has more flowers than slots, later
//     laps are pulled toward the center.
//  3. Each coordinate is jittered by less than half the smallest gap between
//     distinct slot coordinates, so jitter never swaps two flowers.
//  4. Scale falls off from the first flower to the last, times the flower's
//     size factor, plus a small jitter.
//  5. Rotation tilts outward with horizontal distance from the center.
//  6. Z is a dense rank over (slot depth, lap descending, index descending):
//     front slots draw on top and, on a shared slot, earlier flowers draw
//     above later ones.
//
// All coordinates are percentages of the frame and are rounded to three
// decimals so JSON output is byte-stable.
package layout

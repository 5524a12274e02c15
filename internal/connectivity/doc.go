// Package connectivity answers reachability questions over a dungeon grid.
//
// Movement is eight directional. Cardinal steps cost 1.0 and diagonal steps
// cost 1.45. A step is valid when the destination lies inside the outer ring
// and is not a wall; corners are not checked.
//
// The analyzer is used by every organic builder: after floor has been carved,
// PruneUnreachable turns floor that cannot be reached from the entry back
// into wall and returns the cell furthest from it, which becomes the exit.
package connectivity

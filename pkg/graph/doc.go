// Package graph defines the shape graph for csg2d.
// The shape graph is an immutable DAG of polygons, boolean operations,
// inversions, transforms and groups that describes a 2D region.
package graph

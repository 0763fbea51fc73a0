// Package cluster groups feature vectors into tagged resource clusters.
//
// Two interchangeable strategies are selected once at construction:
// density (standard DBSCAN, preferred) and proximity (a single-pass
// seed-distance fallback that approximates the density result). Both
// partition their input exhaustively into disjoint clusters plus noise,
// compute five-field centroids and assign threshold tags in a fixed
// order.
package cluster

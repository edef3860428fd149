// Package loader provides the feature loading system.
//
// Each feature implements the Feature interface and registers its own routes
// when loaded. The Manager keeps the registry and loads enabled features in
// registration order via LoadAll.
package loader

// Package schema holds the per-version type tables that describe the data
// model at each point of its history.
//
// A [Schema] maps type references to [types.Type] values for one version.
// Parent links let a version inherit everything it does not change. The
// [Registry] collects schemas by version, iterates them in ascending
// order, and freezes after bootstrap: the freeze is the only write/read
// boundary in the system, and it happens strictly before any migration.
package schema

// Package fixture builds the deterministic annotated datasets used as
// reader regression fixtures and writes them as AnnData-on-Zarr stores.
//
// Every matrix in a fixture derives from Diagonal, so a reader test can
// predict any entry from its coordinates alone. Writer produces four
// stores that differ only in how X is held:
//
//	<root>/anndata-csc.zarr
//	<root>/anndata-csr.zarr
//	<root>/anndata-dense.zarr
//	<root>/anndata-no-X.zarr
//
// next to a JSON snapshot of each store and a manifest.toml with per-store
// digests that Verify checks against the disk.
package fixture

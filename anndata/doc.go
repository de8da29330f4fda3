// Package anndata models annotated matrix datasets and stores them in the
// AnnData-on-Zarr layout.
//
// A Dataset couples an optional primary matrix X with two annotation tables
// (obs for rows, var for columns) and five matrix collections whose shapes
// are tied to those axes. Attachments are validated when they are made, so a
// Dataset is always internally consistent.
//
// WriteZarr lays the dataset out as one element per node, each tagged with
// encoding-type and encoding-version attributes. ReadZarr walks the same
// layout through a Registry that dispatches on those attributes:
//
//	d, err := anndata.ReadZarr(zarr.NewDirStore("anndata-csr.zarr"))
//	if err != nil {
//		return err
//	}
//	x, ok := d.X()
package anndata

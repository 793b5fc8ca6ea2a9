// Package design holds cell-span documents: a table of columns and rows, the
// tags painted onto its cells, and the leaf graph laid out inside it.
//
// A [Document] is the unit that is stored, edited and laid out. Editing
// methods such as [Document.Paint] and [Document.InsertColumn] delegate to
// package edit and write the result back, keeping node home cells in step
// with track insertions and removals.
//
// # Layout
//
// [Prepare] turns a document into layout input: a table group, one group per
// span and one leaf per node. After a layout run, [Restore] moves every leaf
// into the span group whose bounds contain its center and drops the table:
//
//	p, _ := design.Prepare(doc)
//	res, _ := layout.Stage{Core: hierarchic.New()}.Layout(ctx, p.Graph, p.Grid, p.Assignment)
//	design.Restore(p.Graph)
//	_ = doc.Resize(res.Grid)
//
// # Files
//
// Documents are stored as JSON or TOML. [Load] and [Save] pick the format
// from the file extension.
package design

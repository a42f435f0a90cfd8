// Package notekit is the composition root of the note toolkit.
//
// It wires the core note entity to the filesystem and YAML adapters and
// re-exports the types most callers need.
//
// A note is a text body preceded by ordered frontmatter metadata. It is
// loaded once, reshaped in place with transforms and exported as JSON:
//
//	n := notekit.New(notekit.WithRoot("./vault"))
//	if err := n.Load(ctx, "./vault/ideas/todo.md"); err != nil {
//		return err
//	}
//
//	// Uppercase the body and set a single metadata key, leaving the rest.
//	err := n.Transform(notekit.FieldTransform{
//		Body:     notekit.Apply(strings.ToUpper),
//		Metadata: notekit.MergeMetadata(notekit.Key("status", notekit.Set[any]("done"))),
//	})
//
//	err = n.Export(ctx, "./dist/todo.json", notekit.ExportOptions{Space: 2})
//
// Transforms either receive the whole snapshot (WholeTransform) or describe
// each field independently (FieldTransform). A field is replaced by a literal
// value or by a function of its current value; falsy literals such as "" or 0
// still count as replacements. A failed transform leaves the note untouched.
package notekit

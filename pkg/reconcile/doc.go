// Package reconcile drives text repair across record collections.
//
// A Reconciler is written once against the Store contract: ListPage returns
// records in ascending id order after a cursor, UpdateByID applies a partial
// update to one record. Each collection is described by a Target that names
// its flat text fields, its structured JSON fields and its filter. Targets are
// registered in a Registry and can be selected by name per run.
//
// # Run semantics
//
//   - Pagination is cursor based: the next page starts after the last id
//     seen, never at an offset, so every record is visited at most once even
//     while the collection grows.
//   - Each record is inspected with textnorm.Normalize (flat fields) and
//     textnorm.NormalizeValue (structured fields). Every field that changes is
//     one FieldChange.
//   - In apply mode a record with changes gets exactly one UpdateByID call
//     carrying all of its corrected fields. Dry runs never write and report
//     the same counters an apply run would.
//   - A failing write is logged, counted and kept in the report; the scan
//     continues with the next record. A failing page read ends that target.
//   - Invalid options fail before scanning starts (see IsConfigError).
//   - The first few field changes are kept as samples for human review.
//
// # Usage
//
//	registry := reconcile.MustNewRegistry(reconcile.Target{
//		Name:             "Tour",
//		Filter:           reconcile.Filter{"deleted_at": nil},
//		Fields:           []string{"name", "description"},
//		StructuredFields: []string{"itinerary"},
//		Store:            tours, // any reconcile.Store
//	})
//
//	r, err := reconcile.New(registry, reconcile.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	opts := reconcile.DefaultRunOptions()
//	opts.Mode = reconcile.ModeApply
//	report, err := r.Run(ctx, opts)
//
// # Resuming
//
// With WithCheckpointer the cursor of every target is saved after each page
// of an apply run and cleared once the target is complete. Setting
// RunOptions.Resume continues from the saved cursors. Since clean text is
// never rewritten, repeating part of a run is harmless.
package reconcile

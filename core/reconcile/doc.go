// Package reconcile decides, record by record, how entities exported by a
// remote site land in the local store: create a new record, merge into an
// existing one, or keep a newer local version.
//
// Remote sites assign their own primary keys, so every cross-entity reference
// in a payload (author, parent, attachment, term, comment) is meaningless
// locally until it has been remapped. The engine does that remapping with a
// durable identity mapping and syncs referenced sub-entities before or after
// the owning record as needed.
//
// # Components
//
//  1. IdentityMapper: (kind, remote id, origin) to local id. The only source
//     of truth for "a local counterpart exists".
//
//  2. DuplicateResolver: finds an unmapped local post with the same slug and,
//     when a threshold is set, similar enough content.
//
//  3. ResolveConflict: pure keep-local vs. overwrite decision on modification
//     times and the force flag.
//
//  4. Syncers: one per kind (post, attachment, user, option, taxonomy term,
//     comment), selected through an explicit registry. Unknown kinds are post
//     subtypes.
//
//  5. Engine: dispatches a batch, isolates per-record failures and suspends
//     counting in the Adapter for the duration of the batch.
//
// # Post sync order
//
// Author, parent and embedded media are resolved before the conflict
// decision; terms, comments, the featured image and PostSyncListeners run
// after the post is written. Sub-entity failures are reported as warnings on
// the post's result and never fail the post.
//
// # Concurrency
//
// Records in a batch are processed sequentially. Identity and duplicate checks
// are read-then-write, so two batches racing on the same key in separate
// processes may both create. Within one Engine, concurrent SyncOne calls for
// the same key share a single execution.
//
// # Usage
//
//	engine := reconcile.NewEngine(adapter, identityStore,
//	    reconcile.WithLogger(logger),
//	    reconcile.WithSiteURL("https://target.example"),
//	)
//	results, err := engine.SyncBatch(ctx, reconcile.KindPost, records, reconcile.Options{
//	    DuplicateAction:  reconcile.DuplicateSync,
//	    ContentThreshold: 80,
//	})
package reconcile

// Package store is the gorm backed local store the reconciliation engine
// writes through.
//
// A single Store implements three engine contracts:
//   - reconcile.Adapter: posts, users, options, terms, term relationships
//     and comments, with meta merged into JSON columns.
//   - reconcile.IdentityStore: the identity_mappings table, upserted on its
//     (kind, remote_id, origin_source) unique index so concurrent links never
//     create a second row.
//   - reconcile.AssetProbe: finds an attachment already holding a binary by
//     the basename of its guid.
//
// Term counts and post comment counts are maintained on every write unless
// counting is deferred for the duration of a batch, in which case they are
// recomputed once when counting resumes.
//
// It works on MySQL in production and on SQLite for tests and single-node setups.
package store

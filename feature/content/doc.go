// Package content implements the receiving side of site synchronisation.
//
// A sending site pushes batches of posts, attachments, users, options, terms
// and comments; this feature reconciles each record against the local store
// through the core/reconcile engine and answers with one result per record.
//
// # Components
//
//   - Service: Owns the engine, wired to the gorm store (feature/content/store),
//     the media bucket (feature/content/assets) and the connections listener.
//   - Handler: Exposes the sync, status, progress and media endpoints.
//   - ConnectionListener: Rebuilds typed post connections (p2p_connections)
//     once both ends of a connection are synced.
//   - Loader: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET /status : Connection test; schema, bucket and table counts.
//   - GET /status/:id?origin=&post_type= : Whether a remote post is synced.
//   - POST /sync : Reconcile a batch, results in input order.
//   - GET /progress?kind=&origin=&local= : Ids synced so far and the page cursor.
//   - DELETE /progress?kind= : Forget the page cursor.
//   - GET /wp-content/uploads/* : Stream synced media (prefix configurable).
//
// Every endpoint except media requires the shared sync key.
package content

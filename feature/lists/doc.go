// Package lists implements the shopping list feature.
//
// Lists are persisted with gorm. Reading them always goes through the
// reconciler in core/reconcile: the owned query and the shared query are
// treated as two untrusted sources whose results are validated against the
// acting user, merged, capped and sorted before anything is shown.
//
// # Components
//
//   - Store: gorm persistence for lists and per-user hide markers.
//   - Service: reconciled views, create, share/unshare, hide/unhide and bulk cleanup.
//   - Session: a live view over two Sources that recomputes on every snapshot.
//   - PollingSource: a Source that polls the store and emits on change.
//   - Dispatcher: rate-limited, deduplicated deletion of expired lists.
//   - Handler: HTTP endpoints.
//
// # HTTP Endpoints
//
//   - GET /lists : Reconciled view of the current user.
//   - POST /lists : Create a list.
//   - POST /lists/:id/share : Share with an email.
//   - DELETE /lists/:id/share/:email : Revoke a share.
//   - POST /lists/:id/hide : Hide a shared list.
//   - DELETE /lists/:id/hide : Unhide a shared list.
//   - POST /lists/cleanup : Delete every owned list in batches.
package lists

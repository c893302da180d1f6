// Package items implements the items of a shopping list.
//
// Items belong to exactly one list and are visible to everyone who can see
// that list: its owner and the emails it is shared with. Access is resolved
// through the lists service on every call. Adding an item without a category
// runs the name through the catalog matcher; anything it does not recognise
// lands in "Other".
//
// Deleting an item only marks it deleted so it can be restored. Clearing a
// list removes its items for good.
//
// # HTTP Endpoints
//
//   - GET /lists/:id/items : Items grouped by category, picked and deleted.
//   - POST /lists/:id/items : Add an item.
//   - POST /lists/:id/items/clear-picked : Soft-delete picked items.
//   - DELETE /lists/:id/items : Remove every item.
//   - PATCH /items/:id : Edit an item.
//   - POST /items/:id/pick, DELETE /items/:id/pick : Pick or unpick.
//   - DELETE /items/:id : Soft-delete.
//   - POST /items/:id/restore : Undo a soft delete.
package items

// Package importer loads saved locations in bulk from a JSON location feed.
//
// A feed is a JSON array of objects with user_id, lat, lon and name fields.
// Entries are validated, converted to core.SavedLocation values and written in
// batches with retry and progress reporting. Places an owner already saved
// are counted as duplicates and skipped.
package importer

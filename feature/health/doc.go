// Package health reports whether the service's backends are usable.
//
// # Checks Provided
//
//   - Storage: the configured bucket exists and answers.
//   - Catalog: whether the catalog override object is present. Missing is not
//     an error since the embedded catalog is used instead.
//   - Schema: the lists, hidden_lists and items tables carry every column their
//     gorm models name, with the declared types.
//
// A backend that is not configured reports "disabled".
//
// # HTTP Endpoints
//
//   - GET /health : Runs all checks. 503 when any check errors.
//   - GET /health/storage : Storage only.
//   - GET /health/schema : Schema only.
package health

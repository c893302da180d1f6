// Package validation validates HTTP request bodies with go-playground/validator
// and reports failures keyed by JSON field name.
package validation

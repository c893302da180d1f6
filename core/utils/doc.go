// Package utils provides common helpers shared by the list reconciler and the stores,
// chiefly case-insensitive email handling for sharing checks.
package utils

// Package catalog maps free-text shopping item input to a product category.
//
// A Table of products (canonical names per locale plus a category tag) is
// compiled into the binary from data/products.yaml. An override table can be
// published to object storage and is picked up at startup.
//
// # Matching
//
// Input and names are compared after Normalize folds case, locale letters
// (Turkish ı, ş, ç, ğ, ö, ü) and diacritics. An exact normalized match scores
// 1. Otherwise the single best candidate by Levenshtein similarity is accepted
// when it reaches the configured threshold (0.6 by default). Ties keep the
// first candidate in table order.
//
// # HTTP Endpoints
//
//   - GET /catalog/detect?q= : Detect the category of an item.
package catalog

package catalog

// Config holds configuration for the product category matcher.
type Config struct {
	// Threshold is the minimum similarity a fuzzy candidate needs to be accepted.
	Threshold float64 `mapstructure:"threshold" default:"0.6"`
	// MemoSize bounds the in-process detection memo. Zero disables it.
	MemoSize int `mapstructure:"memo_size" default:"1024"`
	// Object is the storage key of an optional override catalog.
	Object string `mapstructure:"object" default:"catalog/products.yaml"`
	// Locales lists the name locales the matcher compares against.
	Locales []string `mapstructure:"locales" default:"en,tr"`
}

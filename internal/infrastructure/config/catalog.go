package config

// CatalogConfig locates the room layout
type CatalogConfig struct {
	// YAML layout file; empty uses the built-in four-floor office
	Path string `mapstructure:"path"`
}

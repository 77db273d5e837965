package cache

// ConfigError represents an invalid cache setting.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "cache config error in field " + e.Field + ": " + e.Message
}

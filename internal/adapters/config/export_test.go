package config

// NewLoaderWithEnv creates a Loader with injected environment lookups.
func NewLoaderWithEnv(getenv func(string) string, getwd func() (string, error), home func() string) *Loader {
	return &Loader{getenv: getenv, getwd: getwd, home: home}
}

package cfgloader

// Options holds the options of Load.
type Options struct {
	// Path is the YAML file to read instead of ./config/${ENVIRONMENT}.yaml.
	Path string
	// EnvFiles are the dotenv files loaded before expansion. Defaults to .env.
	EnvFiles []string
	// Silent disables logging the loaded configuration.
	Silent bool
}

// Option configures Load.
type Option func(*Options)

// WithPath reads the configuration from path.
func WithPath(path string) Option {
	return func(o *Options) { o.Path = path }
}

// WithEnvFiles loads the given dotenv files instead of .env.
func WithEnvFiles(files ...string) Option {
	return func(o *Options) { o.EnvFiles = files }
}

// WithSilent disables logging the loaded configuration.
func WithSilent() Option {
	return func(o *Options) { o.Silent = true }
}

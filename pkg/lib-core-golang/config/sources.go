package config

// LocalSource returns a factory of a local source that points on the project config dir
// and resolves params of the current service from the root of config files
func LocalSource(appEnv AppEnv, opts ...LocalOpt) SourceFactory {
	return func() (Source, error) {
		return NewLocalSource(append([]LocalOpt{
			LocalOpts.WithAppEnv(appEnv),
			LocalOpts.WithIgnoreDefaultService(),
		}, opts...)...)
	}
}

// RemoteSource returns a factory of a remote source.
// For dev and test envs it falls back to the local source
func RemoteSource(appEnv AppEnv, opts ...LocalOpt) SourceFactory {
	if appEnv.Name == "dev" || appEnv.Name == "test" {
		return LocalSource(appEnv, opts...)
	}
	return func() (Source, error) {
		logger.Info(nil, "Using AWS SSM as a remote params source")
		return NewAWSSSMSource(AwsSSMOpts.WithAppEnv(appEnv))()
	}
}

package shell

var (
	ResolveEnvironment = resolveEnvironment
	LookPath           = lookPath
)

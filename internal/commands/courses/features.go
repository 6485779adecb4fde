package coursescmd

// FeatureGates exposes runtime feature toggles required by course command
// handlers. Callers supply closures reading runtimeconfig Features.
type FeatureGates struct {
	GeneratorEnabled func() bool
}

func (g FeatureGates) generatorEnabled() bool {
	if g.GeneratorEnabled == nil {
		return true
	}
	return g.GeneratorEnabled()
}

package plugin

// missingDependencies returns the declared dependency names absent from the
// discovered-plugin set, in declaration order. The check is one level deep:
// presence in the discovered set is enough, whether or not the dependency
// itself ends up enabled.
func missingDependencies(deps []string, discovered map[string]struct{}) []string {
	var missing []string
	for _, dep := range deps {
		if _, ok := discovered[dep]; !ok {
			missing = append(missing, dep)
		}
	}
	return missing
}

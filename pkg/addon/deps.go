// SPDX-License-Identifier: MPL-2.0

package addon

// DependsOn reports whether other is a direct dependency of d. Indirect
// dependencies are not followed, and an add-on never depends on itself.
func (d *Descriptor) DependsOn(other *Descriptor) bool {
	if other == nil || other.id == d.id {
		return false
	}
	for _, dep := range d.dependencies {
		if dep.ID == other.id {
			return true
		}
	}
	return false
}

// DependsOnAny reports whether any of others is a direct dependency of d.
func (d *Descriptor) DependsOnAny(others []*Descriptor) bool {
	for _, other := range others {
		if d.DependsOn(other) {
			return true
		}
	}
	return false
}

// MissingDependencies returns the direct dependencies of d that no descriptor
// in available satisfies, in declaration order.
func (d *Descriptor) MissingDependencies(available []*Descriptor) []Dependency {
	present := make(map[string]struct{}, len(available))
	for _, a := range available {
		if a != nil {
			present[a.id] = struct{}{}
		}
	}

	var missing []Dependency
	for _, dep := range d.dependencies {
		if _, ok := present[dep.ID]; !ok {
			missing = append(missing, dep)
		}
	}
	return missing
}

// SPDX-License-Identifier: MPL-2.0

package addon

// IsUpdateTo reports whether d should replace incumbent. Both must share a
// lineage; comparing different ids returns an *IdentityMismatchError and a
// nil incumbent returns ErrNoIncumbent.
//
// The first decisive criterion wins:
//
//  1. higher status rank
//  2. higher version
//  3. having a backing file when the other has none
//  4. strictly newer file modification time
//
// The relation is irreflexive and never holds in both directions.
func (d *Descriptor) IsUpdateTo(incumbent *Descriptor) (bool, error) {
	if incumbent == nil {
		return false, ErrNoIncumbent
	}
	if d.id != incumbent.id {
		return false, &IdentityMismatchError{Candidate: d.id, Incumbent: incumbent.id}
	}

	if c := d.status.Compare(incumbent.status); c != 0 {
		return c > 0, nil
	}
	if c := d.version.Compare(incumbent.version); c != 0 {
		return c > 0, nil
	}

	switch own := d.source.(type) {
	case FileSource:
		switch other := incumbent.source.(type) {
		case FileSource:
			return own.LastModified.After(other.LastModified), nil
		case NoFile:
			return true, nil
		}
	case NoFile:
		return false, nil
	}
	return false, nil
}

// SupersededBy returns the descriptor among candidates that is an update to d
// and that no other candidate updates, or nil when d is not superseded.
// Candidates of a different lineage are ignored.
func (d *Descriptor) SupersededBy(candidates []*Descriptor) *Descriptor {
	best := d
	for _, c := range candidates {
		if c == nil || c.id != d.id {
			continue
		}
		if newer, _ := c.IsUpdateTo(best); newer {
			best = c
		}
	}
	if best == d {
		return nil
	}
	return best
}

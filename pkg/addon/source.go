// SPDX-License-Identifier: MPL-2.0

package addon

import "time"

type (
	// Source records whether a descriptor is backed by an archive on disk.
	// It is either FileSource or NoFile.
	Source interface {
		isSource()
	}

	// FileSource is the archive backing a descriptor and its modification time.
	FileSource struct {
		Path         string
		LastModified time.Time
	}

	// NoFile marks a descriptor known only by its metadata, such as a catalog
	// entry or an add-on detached from disk after an in-memory comparison.
	NoFile struct{}
)

func (FileSource) isSource() {}
func (NoFile) isSource()     {}

// SPDX-License-Identifier: MPL-2.0

// Package scan decides which add-ons found in a set of directories would be
// installed: it validates every candidate archive, keeps the newest add-on of
// each lineage and blocks add-ons the configured host or runtime cannot load.
package scan

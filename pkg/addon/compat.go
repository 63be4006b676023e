// SPDX-License-Identifier: MPL-2.0

package addon

import (
	"fmt"

	"github.com/addonvet/addonvet/pkg/version"
)

// Compatibility issue kinds.
const (
	IssueHostTooOld      IssueKind = "host-too-old"
	IssueHostTooNew      IssueKind = "host-too-new"
	IssueHostUnparseable IssueKind = "host-unparseable"
	IssueJavaTooOld      IssueKind = "java-too-old"
	IssueJavaUnparseable IssueKind = "java-unparseable"
)

type (
	// IssueKind names the bound a compatibility check failed.
	IssueKind string

	// CompatibilityIssue is one reason an add-on may not load.
	CompatibilityIssue struct {
		Kind     IssueKind
		Observed string
		Required string
		Cause    error
	}
)

// String returns a short human-readable description of the issue.
func (i CompatibilityIssue) String() string {
	switch i.Kind {
	case IssueHostTooOld:
		return fmt.Sprintf("host version %s is older than the minimum %s", i.Observed, i.Required)
	case IssueHostTooNew:
		return fmt.Sprintf("host version %s is not older than %s", i.Observed, i.Required)
	case IssueHostUnparseable:
		return fmt.Sprintf("host version %q cannot be parsed", i.Observed)
	case IssueJavaTooOld:
		return fmt.Sprintf("java version %s is older than the minimum %s", i.Observed, i.Required)
	case IssueJavaUnparseable:
		return fmt.Sprintf("java version %q cannot be parsed", i.Observed)
	default:
		return string(i.Kind)
	}
}

// CanLoadInVersion reports whether the add-on loads in the given host version:
// at or after the not-before version and before the not-from version, when set.
// A host version that does not parse never loads.
func (d *Descriptor) CanLoadInVersion(host string) bool {
	return len(d.hostIssues(host)) == 0
}

// CanRunInJavaVersion reports whether the add-on runs in the given Java runtime.
// Without a declared minimum every runtime is accepted; otherwise a runtime
// that does not parse is rejected.
func (d *Descriptor) CanRunInJavaVersion(runtime string) bool {
	if d.minimumJavaVersion == nil {
		return true
	}
	return len(d.javaIssues(runtime)) == 0
}

// CompatibilityIssues lists every bound the add-on fails for the given host
// and Java versions. An empty argument skips that check.
func (d *Descriptor) CompatibilityIssues(host, runtime string) []CompatibilityIssue {
	var issues []CompatibilityIssue
	if host != "" {
		issues = append(issues, d.hostIssues(host)...)
	}
	if runtime != "" && d.minimumJavaVersion != nil {
		issues = append(issues, d.javaIssues(runtime)...)
	}
	return issues
}

func (d *Descriptor) hostIssues(host string) []CompatibilityIssue {
	hv, err := version.Parse(host)
	if err != nil {
		return []CompatibilityIssue{{Kind: IssueHostUnparseable, Observed: host, Cause: err}}
	}

	var issues []CompatibilityIssue
	if d.notBeforeVersion != nil && hv.Less(*d.notBeforeVersion) {
		issues = append(issues, CompatibilityIssue{
			Kind:     IssueHostTooOld,
			Observed: host,
			Required: d.notBeforeVersion.String(),
		})
	}
	if d.notFromVersion != nil && !hv.Less(*d.notFromVersion) {
		issues = append(issues, CompatibilityIssue{
			Kind:     IssueHostTooNew,
			Observed: host,
			Required: d.notFromVersion.String(),
		})
	}
	return issues
}

func (d *Descriptor) javaIssues(runtime string) []CompatibilityIssue {
	rt, err := version.ParseRuntime(runtime)
	if err != nil {
		return []CompatibilityIssue{{Kind: IssueJavaUnparseable, Observed: runtime, Cause: err}}
	}
	if !rt.AtLeast(*d.minimumJavaVersion) {
		return []CompatibilityIssue{{
			Kind:     IssueJavaTooOld,
			Observed: runtime,
			Required: d.minimumJavaVersion.String(),
		}}
	}
	return nil
}

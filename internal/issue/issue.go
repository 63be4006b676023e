// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"sort"

	"github.com/addonvet/addonvet/pkg/addon"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const docsBase = "https://github.com/addonvet/addonvet/blob/main/docs/"

// Issue identifiers. Each one maps to a Markdown guide shown by --explain.
const (
	InvalidPathId Id = iota + 1
	InvalidFileNameId
	FileNotReadableId
	UnreadableZipFileId
	MissingManifestId
	InvalidManifestId
	IdentityMismatchId
	HostIncompatibleId
	JavaIncompatibleId
	MissingDependencyId
	NotInCatalogId
	ConfigLoadFailedId
)

type Id int

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation pages for this problem
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	invalidPathIssue = &Issue{
		id: InvalidPathId,
		mdMsg: `
# Invalid path!

The path given does not name a file. It is empty or ends with a separator.

## Things you can try:
- Pass the path of a single '.zap' archive
- Use 'addonvet scan <dir>' to check a whole directory`,
		docLinks: []HttpLink{docsBase + "validation.md"},
	}

	invalidFileNameIssue = &Issue{
		id: InvalidFileNameId,
		mdMsg: `
# Not an add-on file name!

Add-on archives must use the '.zap' extension (any case).

## Things you can try:
- Rename the file so it ends in '.zap'
- Prefer the '<id>-<status>-<version>.zap' form used by the marketplace`,
		docLinks: []HttpLink{docsBase + "validation.md"},
	}

	fileNotReadableIssue = &Issue{
		id: FileNotReadableId,
		mdMsg: `
# File not readable!

The archive does not exist, is not a regular file, or cannot be opened.

## Things you can try:
- Check the path for typos
- Check the file permissions:
~~~
$ ls -l <file>.zap
~~~
- Make sure you are not pointing at a directory`,
		docLinks: []HttpLink{docsBase + "validation.md"},
	}

	unreadableZipFileIssue = &Issue{
		id: UnreadableZipFileId,
		mdMsg: `
# Not a ZIP archive!

The file could be opened but its contents are not a readable ZIP archive.

## Things you can try:
- Download the add-on again, the file may be truncated
- Compare the file hash with the one published in the marketplace catalog`,
		docLinks: []HttpLink{docsBase + "validation.md"},
	}

	missingManifestIssue = &Issue{
		id: MissingManifestId,
		mdMsg: `
# Manifest missing!

The archive has no 'ZapAddOn.xml' entry at its root.

## Things you can try:
- Check that the manifest is at the root of the archive, not inside a folder
- Check the entry name, it is case sensitive:
~~~
$ unzip -l <file>.zap | grep ZapAddOn.xml
~~~`,
		docLinks: []HttpLink{docsBase + "manifest.md"},
	}

	invalidManifestIssue = &Issue{
		id: InvalidManifestId,
		mdMsg: `
# Invalid manifest!

'ZapAddOn.xml' could not be read or is missing required fields.

## Required elements:
- name
- version
- status (one of example, alpha, beta, weekly, release)

## Things you can try:
- Check that the manifest is well formed XML
- Check version values such as 'not-before-version' use numeric components`,
		docLinks: []HttpLink{docsBase + "manifest.md"},
	}

	identityMismatchIssue = &Issue{
		id: IdentityMismatchId,
		mdMsg: `
# Different add-ons!

Only versions of the same add-on can be compared. The identifiers differ.

## Things you can try:
- Compare archives whose file names start with the same identifier`,
		docLinks: []HttpLink{docsBase + "updates.md"},
	}

	hostIncompatibleIssue = &Issue{
		id: HostIncompatibleId,
		mdMsg: `
# Host version not supported!

The add-on declares a host version range that does not include the configured host.

## Things you can try:
- Check 'not-before-version' and 'not-from-version' in the manifest
- Set the host version you run:
~~~
$ addonvet compat --host 2.14.0 <file>.zap
~~~`,
		docLinks: []HttpLink{docsBase + "compatibility.md"},
	}

	javaIncompatibleIssue = &Issue{
		id: JavaIncompatibleId,
		mdMsg: `
# Java version too old!

The add-on requires a newer Java runtime than the one configured.

## Things you can try:
- Upgrade the Java runtime
- Set 'java_version' in your config file to the runtime you actually use`,
		docLinks: []HttpLink{docsBase + "compatibility.md"},
	}

	missingDependencyIssue = &Issue{
		id: MissingDependencyId,
		mdMsg: `
# Dependencies not available!

The add-on depends on add-ons that are neither installed nor in the catalog.

## Things you can try:
- Install the missing add-ons listed above
- Check the add-on identifiers in the manifest 'dependencies' section`,
		docLinks: []HttpLink{docsBase + "dependencies.md"},
	}

	notInCatalogIssue = &Issue{
		id: NotInCatalogId,
		mdMsg: `
# Add-on not in catalog!

The catalog has no entry for the requested identifier.

## Things you can try:
- List the catalog entries:
~~~
$ addonvet catalog <catalog>.xml
~~~`,
		docLinks: []HttpLink{docsBase + "catalog.md"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Show the configuration in effect:
~~~
$ addonvet config show
~~~
- Recreate the default file:
~~~
$ addonvet config init
~~~`,
		docLinks: []HttpLink{docsBase + "configuration.md"},
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	issues = map[Id]*Issue{
		invalidPathIssue.Id():       invalidPathIssue,
		invalidFileNameIssue.Id():   invalidFileNameIssue,
		fileNotReadableIssue.Id():   fileNotReadableIssue,
		unreadableZipFileIssue.Id(): unreadableZipFileIssue,
		missingManifestIssue.Id():   missingManifestIssue,
		invalidManifestIssue.Id():   invalidManifestIssue,
		identityMismatchIssue.Id():  identityMismatchIssue,
		hostIncompatibleIssue.Id():  hostIncompatibleIssue,
		javaIncompatibleIssue.Id():  javaIncompatibleIssue,
		missingDependencyIssue.Id(): missingDependencyIssue,
		notInCatalogIssue.Id():      notInCatalogIssue,
		configLoadFailedIssue.Id():  configLoadFailedIssue,
	}

	validityIssues = map[addon.Validity]Id{
		addon.ValidityInvalidPath:       InvalidPathId,
		addon.ValidityInvalidFileName:   InvalidFileNameId,
		addon.ValidityFileNotReadable:   FileNotReadableId,
		addon.ValidityUnreadableZipFile: UnreadableZipFileId,
		addon.ValidityMissingManifest:   MissingManifestId,
		addon.ValidityInvalidManifest:   InvalidManifestId,
	}
)

// Values returns every known issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].id < out[b].id })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}

// ForValidity returns the issue explaining a rejected validation, or nil
// for a valid result.
func ForValidity(v addon.Validity) *Issue {
	id, ok := validityIssues[v]
	if !ok {
		return nil
	}
	return issues[id]
}

// ForCompatibility returns the issue explaining a compatibility problem.
func ForCompatibility(kind addon.IssueKind) *Issue {
	switch kind {
	case addon.IssueHostTooOld, addon.IssueHostTooNew, addon.IssueHostUnparseable:
		return issues[HostIncompatibleId]
	case addon.IssueJavaTooOld, addon.IssueJavaUnparseable:
		return issues[JavaIncompatibleId]
	default:
		return nil
	}
}

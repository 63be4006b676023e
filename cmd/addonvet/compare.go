// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"github.com/addonvet/addonvet/internal/issue"
	"github.com/addonvet/addonvet/internal/report"
	"github.com/addonvet/addonvet/pkg/addon"

	"github.com/spf13/cobra"
)

// newCompareCommand creates the `addonvet compare` command.
func newCompareCommand(app *App) *cobra.Command {
	var byName bool

	cmd := &cobra.Command{
		Use:   "compare <candidate> <incumbent>",
		Short: "Decide whether one add-on is an update to another",
		Long: `Decide whether the candidate add-on should replace the incumbent.

The first decisive rule wins: higher status, then higher version, then
having a file over having none, then the newer file modification time.

Exits with status 1 when the candidate is not an update.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(app, args[0], args[1], byName)
		},
	}

	cmd.Flags().BoolVar(&byName, "name", false, "compare legacy file names instead of reading archives")

	return cmd
}

func runCompare(app *App, candidatePath, incumbentPath string, byName bool) error {
	candidate, err := loadDescriptor(candidatePath, byName)
	if err != nil {
		return err
	}
	incumbent, err := loadDescriptor(incumbentPath, byName)
	if err != nil {
		return err
	}

	isUpdate, err := candidate.IsUpdateTo(incumbent)
	if err != nil {
		var mismatch *addon.IdentityMismatchError
		ctx := issue.NewErrorContext().WithOperation("compare add-ons")
		if errors.As(err, &mismatch) {
			ctx = ctx.WithSuggestion("Only versions of the same add-on can be compared")
		}
		return usageError(ctx.Wrap(err).BuildError())
	}

	app.logger.Debug("compared", "candidate", candidate, "incumbent", incumbent, "update", isUpdate)
	if err := app.write(report.Comparison{
		Candidate: report.FromDescriptor(candidate),
		Incumbent: report.FromDescriptor(incumbent),
		IsUpdate:  isUpdate,
		Reason:    updateReason(candidate, incumbent),
	}); err != nil {
		return err
	}

	if !isUpdate {
		return rejected(nil)
	}
	return nil
}

// updateReason names the rule that decided the comparison of two add-ons of
// the same lineage.
func updateReason(candidate, incumbent *addon.Descriptor) string {
	if candidate.Status() != incumbent.Status() {
		return "status " + candidate.Status().String() + " vs " + incumbent.Status().String()
	}
	if c := candidate.Version().Compare(incumbent.Version()); c != 0 {
		return "version " + candidate.Version().String() + " vs " + incumbent.Version().String()
	}
	_, candidateHasFile := candidate.File()
	_, incumbentHasFile := incumbent.File()
	switch {
	case candidateHasFile && incumbentHasFile:
		if candidate.LastModified().Equal(incumbent.LastModified()) {
			return "same status, version and modification time"
		}
		return "file modification time"
	case candidateHasFile != incumbentHasFile:
		return "backing file"
	default:
		return "same status and version"
	}
}

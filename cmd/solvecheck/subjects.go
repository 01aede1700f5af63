package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/solvecheck/internal/verify"
)

// keywordPreview is how many routing keywords "subjects" prints per subject.
const keywordPreview = 6

// NewSubjectsCmd creates the subjects command.
func NewSubjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "List the subjects that can be verified",
		Long: `Subjects lists every verification subject in routing order together with
a few of the keywords used to route problems to it. Use these names with
"verify --disable" or in the disabledSubjects list of the configuration file.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			for _, v := range verify.Verifiers() {
				kw := v.Keywords()
				if len(kw) > keywordPreview {
					kw = kw[:keywordPreview]
				}
				fmt.Fprintf(out, "%-16s %s\n", v.Subject(), strings.Join(kw, ", "))
			}
		},
	}
}

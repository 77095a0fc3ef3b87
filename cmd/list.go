package cmd

import (
	"fmt"

	"github.com/KaramelBytes/salescope/internal/project"
	"github.com/KaramelBytes/salescope/internal/utils"
	"github.com/spf13/cobra"
)

var (
	listDir  string
	listKind string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the artifacts recorded by the last run",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := listDir
		if dir == "" {
			c, err := requireConfig()
			if err != nil {
				return err
			}
			dir = c.OutputDir
		}
		switch project.Kind(listKind) {
		case "", project.KindChart, project.KindWorkbook:
		default:
			return fmt.Errorf("invalid --kind: %s (use chart or workbook)", listKind)
		}
		runDir, err := utils.FindRunDir(dir)
		if err != nil {
			return err
		}
		r, err := project.LoadRun(runDir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Run %s (%s) at %s\n", r.ID, r.Command, r.StartedAt.Format("2006-01-02 15:04:05"))
		for _, in := range r.Inputs {
			if in.Dropped > 0 {
				fmt.Fprintf(out, "  input %s: %s (%d rows, %d dropped)\n", in.Role, in.Path, in.Rows, in.Dropped)
				continue
			}
			fmt.Fprintf(out, "  input %s: %s (%d rows)\n", in.Role, in.Path, in.Rows)
		}
		arts := r.ArtifactsOf(project.Kind(listKind))
		if len(arts) == 0 {
			fmt.Fprintln(out, "(no artifacts)")
			return nil
		}
		for _, a := range arts {
			if a.Title != "" {
				fmt.Fprintf(out, "- %s: %s (%s)\n", a.Kind, a.Path, a.Title)
				continue
			}
			fmt.Fprintf(out, "- %s: %s\n", a.Kind, a.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listDir, "dir", "", "run directory (default output_dir)")
	listCmd.Flags().StringVar(&listKind, "kind", "", "only list artifacts of this kind: chart | workbook")
}

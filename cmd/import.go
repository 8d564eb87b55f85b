package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/bank"
)

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Convert an Excel question sheet into a bank file",
	Long: "Read questions from an Excel workbook and write them as a YAML bank\n" +
		"file usable with --bank. Invalid rows are reported and skipped.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, _ := cmd.Flags().GetString("sheet")
		outPath, _ := cmd.Flags().GetString("out")

		result, err := bank.ImportXLSX(args[0], sheet)
		if err != nil {
			return err
		}
		for _, msg := range result.Errors {
			fmt.Fprintln(cmd.ErrOrStderr(), "skipped", msg)
		}
		if len(result.Questions) == 0 {
			return fmt.Errorf("no valid questions in %s", args[0])
		}

		w := cmd.OutOrStdout()
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outPath, err)
			}
			defer f.Close()
			w = f
		}
		if err := bank.WriteYAML(w, result.Topics, result.Questions); err != nil {
			return err
		}
		if outPath != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d questions in %d topics to %s (%d skipped).\n",
				len(result.Questions), len(result.Topics), outPath, result.Skipped)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().String("sheet", "", "Sheet name (default: first sheet)")
	importCmd.Flags().StringP("out", "o", "", "Output file (default: stdout)")
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resultProblemId string

func init() {
	resultCmd.Flags().StringVar(&resultProblemId, "id", "", "The id of the problem.")
	resultCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(resultCmd)
}

var resultCmd = &cobra.Command{
	Use:   "result --id <problem>",
	Short: "Shows the result of the latest submission to a problem.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, found, err := current.account.LatestResult(cmd.Context(), resultProblemId)
		if err != nil {
			return err
		}
		if !found {
			fmt.Fprintln(cmd.OutOrStdout(), "You have not submitted anything to this problem yet.")
			return nil
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

package commands

import (
	"fmt"

	"queracli/internal/scrapers/quera"

	"github.com/spf13/cobra"
)

var (
	sendProblemId string
	sendFile      string
	sendFileType  string
)

func init() {
	sendCmd.Flags().StringVar(&sendProblemId, "id", "", "The id of the problem.")
	sendCmd.Flags().StringVarP(&sendFile, "file", "f", "", "Path or http(s) url of the solution.")
	sendCmd.Flags().StringVarP(&sendFileType, "type", "t", "", "The file type, inferred from the file extension when omitted.")
	sendCmd.MarkFlagRequired("id")
	sendCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(sendCmd)
}

var sendCmd = &cobra.Command{
	Use:   "send --id <problem> --file <path|url> [--type <file type>]",
	Short: "Submits a solution to a problem.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		source, err := current.account.LoadSource(ctx, sendFile)
		if err != nil {
			return err
		}
		res, err := current.account.Submit(ctx, quera.SubmitRequest{
			ProblemId: sendProblemId,
			Source:    source,
			FileType:  sendFileType,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(
			cmd.OutOrStdout(),
			"Submitted %s as %s to problem %s, run `quera result --id %s` to see the result.\n",
			res.FileName,
			res.FileType.DisplayName,
			res.ProblemId,
			res.ProblemId,
		)
		return nil
	},
}

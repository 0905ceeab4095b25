package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	promptx "github.com/tanpawarit/persona-agent/agent/prompt"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the system prompt built from the persona documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		persona, err := loadPersona()
		if err != nil {
			return err
		}
		out, err := promptx.SystemPrompt(cmd.Context(), persona)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)
}

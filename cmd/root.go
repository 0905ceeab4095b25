package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	configx "github.com/tanpawarit/persona-agent/pkg/config"
	logx "github.com/tanpawarit/persona-agent/pkg/logger"
)

var (
	envFile string
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "persona-agent",
	Short: "Answer visitor questions on someone's behalf",
	Long: `persona-agent is a chatbot that speaks for one person, grounded on their
profile, resume and summary. It records interested visitors and questions it
could not answer, and pushes a notification for each.

  persona-agent serve          # web chat on :7860
  persona-agent chat           # chat in the terminal
  persona-agent prompt         # print the system prompt`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return applyEnvFile(envFile)
	},
}

// applyEnvFile selects the env file for every later config load and
// reconfigures the logger, which was first set up before flags were parsed.
func applyEnvFile(path string) error {
	configx.SetEnvFile(path)
	conf, err := loadConfig[logx.Config]("LOG")
	if err != nil {
		return err
	}
	logx.Init(*conf)
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to .env file (default ./.env when present)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

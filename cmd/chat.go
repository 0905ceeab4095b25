package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	contractx "github.com/tanpawarit/persona-agent/agent/contract"
	"github.com/tanpawarit/persona-agent/web"
)

var (
	chatHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1).
			MarginBottom(1)

	userPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true)

	replyStyle = lipgloss.NewStyle().
			Padding(0, 2).
			MarginBottom(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Italic(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the persona in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := a.close(); err != nil {
				log.Warn().Err(err).Msg("close ledger")
			}
		}()

		return runChat(ctx, a.engine, a.engine.Persona().Name, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

// runChat is a line-oriented REPL. History lives only in this loop.
func runChat(ctx context.Context, r web.Responder, name string, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, chatHeaderStyle.Render("👋 Chat with "+name))
	fmt.Fprintln(out, hintStyle.Render("/clear resets the conversation, /quit or Ctrl-D exits"))

	var history []*schema.Message
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for {
		fmt.Fprint(out, userPromptStyle.Render("you › "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/clear":
			history = nil
			fmt.Fprintln(out, hintStyle.Render("conversation cleared"))
			continue
		}

		reply, err := r.Respond(ctx, line, history)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error().Err(err).Str("kind", contractx.KindOf(err).String()).Msg("turn failed")
			fmt.Fprintln(out, errorStyle.Render("Sorry, I couldn't answer that just now. Please try again."))
			continue
		}

		history = append(history, schema.UserMessage(line), schema.AssistantMessage(reply, nil))
		fmt.Fprintln(out, assistantLabelStyle.Render(name+" ›"))
		fmt.Fprintln(out, replyStyle.Render(reply))
	}
}

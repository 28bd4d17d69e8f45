package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/partselect/partchat/internal/config"
	"github.com/partselect/partchat/internal/services"
	"github.com/partselect/partchat/internal/tui"
	"github.com/partselect/partchat/pkg/logger"
)

var (
	styleFlag string
	widthFlag int
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Chat with the assistant in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Log lines would tear the full-screen interface.
		logger.Init(io.Discard)

		widget, err := config.GetWidgetConfig()
		if err != nil {
			return err
		}
		sender, err := services.NewSender()
		if err != nil {
			return err
		}
		return tui.Run(cmd.Context(), sender, widget, styleFlag)
	},
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the assistant one question and print the answer",
	Long: `Sends a single question to the assistant and prints the answer with
any relevant parts.

Example:
  partchat ask "How to install part PS11752778?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		widget, err := config.GetWidgetConfig()
		if err != nil {
			return err
		}
		sender, err := services.NewSender()
		if err != nil {
			return err
		}
		return tui.Ask(cmd.Context(), sender, widget, styleFlag, widthFlag, strings.Join(args, " "), cmd.OutOrStdout())
	},
}

func init() {
	for _, c := range []*cobra.Command{tuiCmd, askCmd} {
		c.Flags().StringVar(&styleFlag, "style", "dark", "glamour style (dark, light, notty, ...)")
	}
	askCmd.Flags().IntVar(&widthFlag, "width", 80, "wrap width of the printed answer")
}

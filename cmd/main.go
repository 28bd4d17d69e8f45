package main

import (
	"errors"
	"io/fs"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	v1handlers "github.com/partselect/partchat/internal/api/v1/handlers"
	"github.com/partselect/partchat/internal/services"
	"github.com/partselect/partchat/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "partchat",
	Short: "PartSelect support chat",
	Long: `partchat serves the PartSelect support chat widget and offers a
terminal client for the same assistant.

Configuration is read from the environment and from a .env file in the
working directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		logger.Init(os.Stderr)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, tuiCmd, askCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupRouter(s *services.Services) http.Handler {
	return v1handlers.NewHandler(s, log.Logger)
}

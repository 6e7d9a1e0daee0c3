package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/credence/internal/llm"
	"github.com/ppiankov/credence/internal/server"
	"github.com/ppiankov/credence/internal/settings"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API over HTTP",
	Long: `Serve exposes the analyzer and the verification agent:

  POST /v1/analyze   AnalysisRequest -> AnalysisResult
  POST /v1/verify    {text, author?} -> VerifyResult
  POST /v1/chat      {question, context} -> ChatReply
  GET  /healthz

Settings (AI ranking, fact-check opt-in, keys) are re-read on every request.

Example:
  credence serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	logger := newLogger(cfg.Log, os.Stderr)

	agent := llm.NewAgent(llm.ConfigFromModel(cfg), settings.NewViperProvider(nil),
		llm.WithAgentLogger(logger.With("component", "agent")))
	srv := server.New(cfg.Server, newAnalyzer(cfg, logger), agent, logger.With("component", "server"), Version)

	if err := srv.ListenAndServe(cmd.Context()); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

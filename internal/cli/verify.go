package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/credence/internal/llm"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/settings"
)

var (
	authorHandle   string
	authorName     string
	authorVerified bool

	chatClaim       string
	chatAnalysis    string
	chatAgentResult string
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <text>",
	Short: "Ask the LLM agent for a verdict on a claim",
	Long: `Verify sends the claim to the configured LLM provider and prints its
verdict, summary and the five-level scale.

Example:
  GEMINI_API_KEY=... credence verify "The Eiffel Tower was moved in 2020"
  credence verify --llm-provider openai --author-handle @someone "Claim text"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat <question>",
	Short: "Ask a follow-up question about a claim and its analysis",
	Long: `Chat answers a question using the claim, an optional saved analysis
(--analysis report.json) and an optional earlier agent verdict.

Example:
  credence chat --claim "Drinking bleach cures flu" --analysis report.json "Why is this suspicious?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(chatCmd)

	verifyCmd.Flags().StringVar(&authorHandle, "author-handle", "", "handle of the account that posted the claim")
	verifyCmd.Flags().StringVar(&authorName, "author-name", "", "display name of the author")
	verifyCmd.Flags().BoolVar(&authorVerified, "verified", false, "the author account is verified")

	chatCmd.Flags().StringVar(&chatClaim, "claim", "", "claim text the question is about")
	chatCmd.Flags().StringVar(&chatAnalysis, "analysis", "", "path to a JSON analysis report")
	chatCmd.Flags().StringVar(&chatAgentResult, "agent-result", "", "earlier agent verdict to include")

	for _, c := range []*cobra.Command{verifyCmd, chatCmd} {
		c.Flags().DurationVar(&timeout, "timeout", time.Minute, "request timeout")
	}
}

func newAgent() (*llm.Agent, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.Log, os.Stderr)
	return llm.NewAgent(llm.ConfigFromModel(cfg), settings.NewViperProvider(nil),
		llm.WithAgentLogger(logger.With("component", "agent"))), nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	agent, err := newAgent()
	if err != nil {
		return err
	}

	req := model.VerifyRequest{Text: strings.Join(args, " ")}
	if authorHandle != "" || authorName != "" {
		req.Author = &model.Author{Handle: authorHandle, Name: authorName, Verified: authorVerified}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	res := agent.VerifyClaim(ctx, req)
	if res.Error != "" {
		return fmt.Errorf("verify failed: %s", res.Error)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Claim:   %s\n", res.Claim)
	fmt.Fprintf(out, "Verdict: %s\n", res.Verdict)
	if res.Scale != nil {
		fmt.Fprintf(out, "Scale:   %s (%d/100)\n", res.Scale.Level, res.Scale.Score)
	}
	fmt.Fprintf(out, "\n%s\n", res.Summary)
	for _, s := range res.Sources {
		fmt.Fprintf(out, "  - %s\n", s)
	}
	return nil
}

func runChat(cmd *cobra.Command, args []string) error {
	agent, err := newAgent()
	if err != nil {
		return err
	}

	req := model.ChatRequest{
		Question: strings.Join(args, " "),
		Context:  model.ChatContext{ClaimText: chatClaim, AgentResult: chatAgentResult},
	}
	if chatAnalysis != "" {
		data, err := os.ReadFile(chatAnalysis)
		if err != nil {
			return fmt.Errorf("read analysis: %w", err)
		}
		var analysis model.AnalysisResult
		if err := json.Unmarshal(data, &analysis); err != nil {
			return fmt.Errorf("decode analysis %s: %w", chatAnalysis, err)
		}
		req.Context.Analysis = &analysis
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	reply := agent.ChatWithAgent(ctx, req)
	if reply.Error != "" {
		return fmt.Errorf("chat failed: %s", reply.Error)
	}
	fmt.Fprintln(cmd.OutOrStdout(), reply.Reply)
	return nil
}

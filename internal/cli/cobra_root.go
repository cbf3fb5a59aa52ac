package cli

import (
	"github.com/spf13/cobra"
)

// buildRootCmdWith constructs the Cobra command tree wired to the App's actions.
func buildRootCmdWith(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "sllm",
		Short:         "Small local language model helpers backed by a containerized Ollama",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "nerd information")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (yaml|json|toml); defaults SLLM_CONFIG or ~/.config/sllm/config.*")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.setup()
	}

	// runtime management
	initCmd := &cobra.Command{Use: "init", Short: "Download the runtime image and the model", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		return a.runInit(cmd.Context())
	}}
	startCmd := &cobra.Command{Use: "start", Short: "Start the server and schedule its shutdown", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		return a.runStart(cmd.Context())
	}}
	stopCmd := &cobra.Command{Use: "stop", Short: "Stop the server and cancel the scheduled shutdown", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		a.Lifecycle.Stop(cmd.Context())
		return nil
	}}
	var asJSON bool
	statusCmd := &cobra.Command{Use: "status", Short: "Report runtime, server, model and shutdown status", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		return a.runStatus(cmd.Context(), asJSON)
	}}
	statusCmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	root.AddCommand(initCmd, startCmd, stopCmd, statusCmd)

	// review
	var ref, msgFile string
	reviewCmd := &cobra.Command{Use: "review", Short: "Rate a git commit message", Example: "  sllm review --ref HEAD\n  sllm review --file .git/COMMIT_EDITMSG", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		if ref == "" && msgFile == "" {
			return cmd.Help()
		}
		return a.runReview(cmd.Context(), ref, msgFile)
	}}
	reviewCmd.Flags().StringVar(&ref, "ref", "", "load from commit")
	reviewCmd.Flags().StringVar(&msgFile, "file", "", "load from file")
	reviewCmd.MarkFlagsMutuallyExclusive("ref", "file")

	// translate
	var pipe, edit bool
	var inFile string
	translateCmd := &cobra.Command{Use: "translate", Short: "Translate text", Example: "  echo 'Dobrý den' | sllm translate\n  sllm translate --edit", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		src := translateSource(pipe, edit, inFile, a.StdinTTY)
		if src == sourceNone {
			return cmd.Help()
		}
		return a.runTranslate(cmd.Context(), src, inFile)
	}}
	translateCmd.Flags().BoolVar(&pipe, "pipe", false, "read from pipe (default)")
	translateCmd.Flags().BoolVar(&edit, "edit", false, "open editor")
	translateCmd.Flags().StringVar(&inFile, "file", "", "read from file")
	translateCmd.MarkFlagsMutuallyExclusive("pipe", "edit", "file")

	// code
	var fromSignature bool
	codeCmd := &cobra.Command{Use: "code", Short: "Implement a function", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		if !fromSignature {
			return cmd.Help()
		}
		return a.runCode(cmd.Context())
	}}
	codeCmd.Flags().BoolVar(&fromSignature, "from-signature", false, "implement function for a given signature")

	root.AddCommand(reviewCmd, translateCmd, codeCmd)
	return root
}

// cmd/docwriter/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/julianshen/docwriter/internal/config"
	"github.com/julianshen/docwriter/internal/engine"
	"github.com/julianshen/docwriter/internal/logging"
	"github.com/julianshen/docwriter/internal/provider"

	// Register providers via init() side effects.
	_ "github.com/julianshen/docwriter/internal/provider/openai"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	configPath string

	srcDirFlag             string
	authorFlag             string
	modelFlag              string
	baseURLFlag            string
	maxFilesFlag           int
	toleratedErrorsFlag    int
	classDocFlag           bool
	publicMethodDocFlag    bool
	nonPublicMethodDocFlag bool
	logLevelFlag           string
)

func versionString() string {
	return fmt.Sprintf("docwriter %s (commit: %s, built: %s)", version, commit, date)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "docwriter",
		Short: "Add missing Javadoc to Java sources",
		Long:  "docwriter — walks a Java source tree and fills in missing Javadoc using an LLM backend.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&srcDirFlag, "src-dir", ".", "root directory to recursively parse")
	rootCmd.PersistentFlags().StringVar(&authorFlag, "author", "docwriter", "author name for class-level @author tags")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "gpt-4o", "generation model identifier")
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "https://api.openai.com/v1", "backend API base URL")
	rootCmd.PersistentFlags().IntVar(&maxFilesFlag, "max-files", 1, "maximum number of files to change")
	rootCmd.PersistentFlags().IntVar(&toleratedErrorsFlag, "tolerated-errors", 5, "processing failures tolerated before aborting")
	rootCmd.PersistentFlags().BoolVar(&classDocFlag, "class-doc", true, "generate class/interface-level Javadoc")
	rootCmd.PersistentFlags().BoolVar(&publicMethodDocFlag, "public-method-doc", false, "generate Javadoc for public methods")
	rootCmd.PersistentFlags().BoolVar(&nonPublicMethodDocFlag, "non-public-method-doc", false, "generate Javadoc for non-public methods")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "log verbosity: trace, debug, info, warn, error")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(versionString())
		},
	}
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves the config file (when given) and applies flag
// overrides. Flags changed on the command line win over file values.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("src-dir") {
		cfg.SrcDir = srcDirFlag
	}
	if flags.Changed("author") {
		cfg.Author = authorFlag
	}
	if flags.Changed("model") {
		cfg.Model = modelFlag
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = baseURLFlag
	}
	if flags.Changed("max-files") {
		cfg.MaxFilesToChange = maxFilesFlag
	}
	if flags.Changed("tolerated-errors") {
		cfg.ToleratedErrors = toleratedErrorsFlag
	}
	if flags.Changed("class-doc") {
		cfg.ClassDoc = classDocFlag
	}
	if flags.Changed("public-method-doc") {
		cfg.PublicMethodDoc = publicMethodDocFlag
	}
	if flags.Changed("non-public-method-doc") {
		cfg.NonPublicMethodDoc = nonPublicMethodDocFlag
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevelFlag
	}

	return cfg, nil
}

func run(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFile)

	apiKey, err := config.ResolveAPIKey()
	if err != nil {
		return err
	}
	log.Debugf("apiKey: %s", apiKey)

	gen, err := provider.New(cfg.Provider, cfg.BaseURL, apiKey)
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}

	eng := engine.New(cfg, gen, log)
	if _, err := eng.Run(context.Background()); err != nil {
		return err
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethanolivertroy/ffufai/internal/args"
	"github.com/ethanolivertroy/ffufai/internal/config"
	"github.com/ethanolivertroy/ffufai/internal/runner"
	"github.com/ethanolivertroy/ffufai/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"WRAPPER", []string{"ffuf-path", "max-extensions", "dry-run"}},
	{"OUTPUT", []string{"quiet", "no-color"}},
	{"GENERAL", []string{"help", "version"}},
}

var rootCmd = &cobra.Command{
	Use:     "ffufai [wrapper flags] -u <url> [ffuf flags]",
	Short:   "AI-assisted extension discovery wrapper for ffuf",
	Version: version.Version,
	Long: `ffufai wraps ffuf and asks an LLM provider which file extensions are
worth fuzzing for the target URL. It probes the target with a single
HEAD request, feeds the response headers and the URL path to the
provider, and re-runs ffuf with the suggested extensions appended
as an -e flag. All unrecognized arguments are passed to ffuf verbatim.`,
	Example: `  ffufai -u https://example.com/FUZZ -w wordlist.txt
  ffufai --max-extensions 6 -u https://example.com/admin/FUZZ -w wordlist.txt -fc 404
  ffufai --ffuf-path /opt/ffuf/ffuf --dry-run -u https://example.com/js/FUZZ -w wordlist.txt
  OLLAMA_MODEL=llama3 ffufai -u https://example.com/presentations/FUZZ -w wordlist.txt`,
	// The wrapper owns only its own flags; everything else must reach
	// ffuf byte-for-byte, so cobra's flag parsing stays off and the raw
	// token list is partitioned by hand.
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, argv []string) error {
		var w args.Wrapper
		fs := args.NewFlagSet(&w)
		fs.SetOutput(os.Stderr)
		passthrough, err := args.Partition(fs, argv)
		if err != nil {
			return err
		}

		if w.ShowHelp {
			printHelp(cmd, fs)
			return nil
		}
		if w.ShowVersion {
			fmt.Printf("ffufai %s\n", version.Version)
			return nil
		}

		opts := &config.Options{
			FfufPath:      w.FfufPath,
			MaxExtensions: w.MaxExtensions,
			FfufArgs:      passthrough,
			DryRun:        w.DryRun,
			Quiet:         w.Quiet,
			NoColor:       w.NoColor,
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runner.Run(ctx, opts)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printHelp writes categorized help like httpx, since cobra's generated
// help is unavailable with flag parsing disabled.
func printHelp(cmd *cobra.Command, fs *pflag.FlagSet) {
	w := os.Stderr
	fmt.Fprint(w, helpBanner(cmd.Version))
	fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", cmd.Long, cmd.UseLine())
	fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
	fmt.Fprintf(w, "\nFlags:\n")
	for _, g := range helpGroups {
		fmt.Fprintf(w, "\n%s:\n", g.title)
		for _, name := range g.flags {
			if f := fs.Lookup(name); f != nil {
				fmt.Fprintln(w, formatFlag(f))
			}
		}
	}
	fmt.Fprintf(w, `
ENVIRONMENT:
   OLLAMA_MODEL        Use a local Ollama model (highest precedence)
   OLLAMA_HOST         Ollama address (default http://localhost:11434)
   ANTHROPIC_API_KEY   Use the Anthropic API
   OPENAI_API_KEY      Use the OpenAI API (lowest precedence)
`)
	fmt.Fprintln(w)
}

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	// Pad to fixed column width for aligned descriptions.
	const col = 36
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	def := f.DefValue
	if def != "" && def != "false" && def != "0" {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}

func helpBanner(ver string) string {
	if ver != "dev" && ver != "" && !strings.HasPrefix(ver, "v") {
		ver = "v" + ver
	}
	return fmt.Sprintf(`
    ____ ____       ____      _
   / __// __/__  __/ __/___ _(_)
  / /_ / /_ / / / / /_ / __ '/ /
 / __// __// /_/ / __// /_/ / /
/_/  /_/   \__,_/_/   \__,_/_/   %s

`, ver)
}

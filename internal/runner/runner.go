// Package runner drives the ffufai pipeline: find the target URL, resolve
// the LLM provider, probe headers, ask for extensions, then hand off to
// ffuf with -e appended.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ethanolivertroy/ffufai/internal/args"
	"github.com/ethanolivertroy/ffufai/internal/config"
	"github.com/ethanolivertroy/ffufai/internal/llm"
	"github.com/ethanolivertroy/ffufai/internal/probe"
	"github.com/ethanolivertroy/ffufai/pkg/version"
)

// Run executes one wrapper run. Recoverable failures (missing -u, bad
// provider response, unreachable local model) end the run cleanly with no
// child process; only a missing provider configuration or a failure to
// start ffuf surface as errors.
func Run(ctx context.Context, opts *config.Options) error {
	console := newConsole(opts.Quiet, opts.NoColor)

	target, err := args.FindURL(opts.FfufArgs)
	if err != nil {
		fmt.Println("Error: -u URL argument is required.")
		return nil
	}

	// Resolve the provider before any HTTP traffic so a missing
	// configuration aborts up front.
	provider, err := config.ProviderFromEnv()
	if err != nil {
		return err
	}
	console.Statusf("Using %s provider", provider.Kind)

	if !args.FuzzInLastSegment(target) {
		fmt.Println("Warning: FUZZ keyword is not at the end of the URL path. Extension fuzzing may not work as expected.")
	}

	baseURL := strings.ReplaceAll(target, "FUZZ", "")
	headers := probe.New("ffufai/" + version.Version).Headers(ctx, baseURL)

	exts, err := llm.Suggest(ctx, llm.New(provider), target, headers, opts.MaxExtensions)
	if err != nil {
		if errors.Is(err, llm.ErrUnavailable) {
			return nil
		}
		fmt.Printf("Error parsing AI response. Try again. Error: %v\n", err)
		return nil
	}

	extList := strings.Join(exts, ",")
	console.Statusf("Suggested extensions: %s", extList)

	argv := make([]string, 0, len(opts.FfufArgs)+3)
	argv = append(argv, opts.FfufPath)
	argv = append(argv, opts.FfufArgs...)
	argv = append(argv, "-e", extList)

	if opts.DryRun {
		fmt.Println(strings.Join(argv, " "))
		return nil
	}
	console.Statusf("Running: %s", strings.Join(argv, " "))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		// ffuf's own exit code is not the wrapper's concern.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return fmt.Errorf("running %s: %w", opts.FfufPath, err)
	}
	return nil
}

// Package args splits the command line into wrapper-owned flags and the
// pass-through tokens forwarded to ffuf.
package args

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/pflag"
)

// Wrapper holds the flags ffufai owns. Everything else on the command
// line belongs to ffuf.
type Wrapper struct {
	FfufPath      string
	MaxExtensions int
	DryRun        bool
	Quiet         bool
	NoColor       bool
	ShowHelp      bool
	ShowVersion   bool
}

// NewFlagSet returns the pflag set describing the wrapper's own flags,
// bound to w.
func NewFlagSet(w *Wrapper) *pflag.FlagSet {
	fs := pflag.NewFlagSet("ffufai", pflag.ContinueOnError)
	fs.StringVar(&w.FfufPath, "ffuf-path", "ffuf", "Path to the ffuf executable")
	fs.IntVar(&w.MaxExtensions, "max-extensions", 4, "Maximum number of suggested extensions")
	fs.BoolVar(&w.DryRun, "dry-run", false, "Print the ffuf command instead of running it")
	fs.BoolVarP(&w.Quiet, "quiet", "q", false, "Suppress status output")
	fs.BoolVar(&w.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVarP(&w.ShowHelp, "help", "h", false, "Show this help and exit")
	fs.BoolVar(&w.ShowVersion, "version", false, "Print version and exit")
	return fs
}

// Partition walks the raw token list, parses the tokens that name a flag
// registered in fs, and returns the rest in their original order. Tokens
// are matched in both "--flag value" and "--flag=value" forms; a flag
// that needs a value but has none left fails via fs.Parse.
func Partition(fs *pflag.FlagSet, argv []string) ([]string, error) {
	var mine, rest []string
	for i := 0; i < len(argv); i++ {
		tok := argv[i]
		name := tok
		inline := false
		if eq := strings.IndexByte(tok, '='); eq != -1 {
			name = tok[:eq]
			inline = true
		}

		var f *pflag.Flag
		switch {
		case strings.HasPrefix(name, "--"):
			f = fs.Lookup(strings.TrimPrefix(name, "--"))
		case strings.HasPrefix(name, "-") && len(name) == 2:
			f = fs.ShorthandLookup(name[1:])
		}
		if f == nil {
			rest = append(rest, tok)
			continue
		}

		mine = append(mine, tok)
		if !inline && f.Value.Type() != "bool" && i+1 < len(argv) {
			i++
			mine = append(mine, argv[i])
		}
	}
	if err := fs.Parse(mine); err != nil {
		return nil, err
	}
	return rest, nil
}

// FindURL returns the token following the first -u flag in the
// pass-through list.
func FindURL(tokens []string) (string, error) {
	for i, tok := range tokens {
		if tok == "-u" {
			if i+1 < len(tokens) {
				return tokens[i+1], nil
			}
			break
		}
	}
	return "", fmt.Errorf("-u URL argument is required")
}

// FuzzInLastSegment reports whether the final path segment of the target
// URL contains the FUZZ keyword. Extension fuzzing only makes sense when
// ffuf substitutes at the end of the path.
func FuzzInLastSegment(raw string) bool {
	path := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		path = u.Path
	}
	segments := strings.Split(path, "/")
	return strings.Contains(segments[len(segments)-1], "FUZZ")
}

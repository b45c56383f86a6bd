// Command hnlevel prints the resolved level of every heading in HTML or
// Markdown documents, or rewrites <h-n> elements into native headings.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dgallion1/hnlevel/internal/config"
	"github.com/dgallion1/hnlevel/internal/headings"
	"github.com/dgallion1/hnlevel/internal/outline"
	"github.com/dgallion1/hnlevel/internal/parser"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/net/html"
)

type options struct {
	format     string
	rewrite    bool
	jsonOut    bool
	vocabulary string
	roles      []string
	verbose    bool
}

func main() {
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))

	if err := run(os.Args, os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "hnlevel:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, []string, error) {
	var o options
	fs := flag.NewFlagSet("hnlevel", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: hnlevel [flags] [file...]\n\nReads stdin when no file is given.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.StringVarP(&o.format, "format", "f", "", "input format: html or markdown (default: by extension, html for stdin)")
	fs.BoolVarP(&o.rewrite, "rewrite", "r", false, "print the document with h-n elements replaced by h1-h6")
	fs.BoolVar(&o.jsonOut, "json", false, "print headings as JSON")
	fs.StringVar(&o.vocabulary, "vocabulary", "", "YAML file extending the tag vocabulary")
	fs.StringArrayVar(&o.roles, "role", nil, "set a tag's role as tag=none|sectioning|heading|leveled (repeatable)")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log progress to stderr")

	if err := fs.Parse(args[1:]); err != nil {
		return o, nil, err
	}
	if o.rewrite && o.jsonOut {
		return o, nil, fmt.Errorf("--rewrite and --json are mutually exclusive")
	}
	return o, fs.Args(), nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, files, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	roles := outline.DefaultRoles()
	if opts.vocabulary != "" {
		roles, err = config.LoadVocabulary(opts.vocabulary)
		if err != nil {
			return err
		}
		log.Debug("loaded vocabulary", "file", opts.vocabulary, "tags", len(roles))
	}
	for _, arg := range opts.roles {
		tag, name, ok := strings.Cut(arg, "=")
		role, valid := outline.ParseRole(name)
		if !ok || !valid || strings.TrimSpace(tag) == "" {
			return fmt.Errorf("invalid --role %q: want tag=none|sectioning|heading|leveled", arg)
		}
		roles.Set(strings.TrimSpace(tag), role)
	}

	if len(files) == 0 {
		files = []string{"-"}
	}

	var results []fileResult
	for i, name := range files {
		doc, err := parseInput(name, opts.format, stdin)
		if err != nil {
			return err
		}
		r := outline.New(roles)

		if opts.rewrite {
			n := headings.Rewrite(doc, r)
			log.Debug("rewrote headings", "file", name, "rewritten", n)
			if err := headings.Render(stdout, doc); err != nil {
				return err
			}
			fmt.Fprintln(stdout)
			continue
		}

		hs := headings.Annotate(doc, r)
		log.Debug("resolved headings", "file", name, "headings", len(hs))
		if opts.jsonOut {
			if hs == nil {
				hs = []headings.Heading{}
			}
			results = append(results, fileResult{File: name, Headings: hs})
			continue
		}
		if len(files) > 1 {
			if i > 0 {
				fmt.Fprintln(stdout)
			}
			fmt.Fprintf(stdout, "==> %s <==\n", name)
		}
		if err := printTable(stdout, hs); err != nil {
			return err
		}
	}

	if opts.jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	return nil
}

type fileResult struct {
	File     string             `json:"file"`
	Headings []headings.Heading `json:"headings"`
}

// parseInput reads name, or stdin for "-". An explicit format wins over the
// file extension.
func parseInput(name, format string, stdin io.Reader) (*html.Node, error) {
	var (
		p   parser.Parser
		err error
	)
	switch {
	case format != "" || name == "-":
		p, err = parser.ForFormat(format)
	default:
		p, err = parser.ForFile(name)
	}
	if err != nil {
		return nil, err
	}

	if name == "-" {
		return p.Parse(stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return doc, nil
}

func printTable(w io.Writer, hs []headings.Heading) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LEVEL\tTAG\tTOP\tSECTION\tTEXT")
	for _, h := range hs {
		level := fmt.Sprint(h.Level)
		if h.DisplayLevel != h.Level {
			level = fmt.Sprintf("%d (h%d)", h.Level, h.DisplayLevel)
		}
		top := ""
		if h.SectionTop {
			top = "*"
		}
		section := h.Section
		if section == "" {
			section = "-"
		}
		text := strings.Repeat("  ", h.DisplayLevel-1) + h.Text
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", level, h.Tag, top, section, text)
	}
	return tw.Flush()
}

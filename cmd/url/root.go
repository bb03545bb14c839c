package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ohler55/ojg/oj"
	urlpkg "github.com/shiroyk/url"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	baseFlag       string
	componentsFlag bool
	outputFlag     string
	debugFlag      bool
)

var rootCmd = &cobra.Command{
	Use:   "url [flags] <url>...",
	Short: "url normalizes URLs per the WHATWG URL standard",
	Long: `url parses its arguments (or stdin lines when none are given) as URLs,
optionally resolving them against a base, and prints the normalized
serialization or the full component table.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "output the debug log")
	rootCmd.Flags().StringVarP(&baseFlag, "base", "b", "", "base url to resolve inputs against")
	rootCmd.Flags().BoolVarP(&componentsFlag, "components", "c", false, "print the component table instead of the href")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "text", "output format (text|json|yaml)")
}

func run(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	parse := urlpkg.Parse
	if baseFlag != "" {
		base, err := urlpkg.Parse(baseFlag)
		if err != nil {
			return fmt.Errorf("parse base: %w", err)
		}
		parse = base.Parse
	}

	inputs := args
	if len(inputs) == 0 || (len(inputs) == 1 && inputs[0] == "-") {
		inputs = nil
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				inputs = append(inputs, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	for _, input := range inputs {
		u, err := parse(input)
		if err != nil {
			return err
		}
		logger.Debug("parsed", "input", input, "href", u.Href())
		if !componentsFlag {
			fmt.Fprintln(out, u.Href())
			continue
		}
		if err := render(out, report(u)); err != nil {
			return err
		}
	}
	return nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if debugFlag {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

type field struct {
	key string
	val any
}

func report(u *urlpkg.URL) []field {
	return []field{
		{"href", u.Href()},
		{"protocol", u.Protocol()},
		{"username", u.Username()},
		{"password", u.Password()},
		{"host", u.Host()},
		{"hostname", u.Hostname()},
		{"port", u.Port()},
		{"pathname", u.Pathname()},
		{"search", u.Search()},
		{"hash", u.Hash()},
		{"origin", u.Origin()},
		{"params", u.SearchParams().Len()},
	}
}

func render(out io.Writer, fields []field) error {
	switch outputFlag {
	case "text", "":
		for _, f := range fields {
			fmt.Fprintf(out, "%-9s %s\n", f.key+":", cast.ToString(f.val))
		}
		fmt.Fprintln(out)
		return nil
	case "json":
		m := make(map[string]any, len(fields))
		for _, f := range fields {
			m[f.key] = f.val
		}
		_, err := fmt.Fprintln(out, oj.JSON(m, &oj.Options{Sort: true}))
		return err
	case "yaml":
		m := make(map[string]any, len(fields))
		for _, f := range fields {
			m[f.key] = f.val
		}
		b, err := yaml.Marshal(m)
		if err != nil {
			return err
		}
		_, err = out.Write(b)
		return err
	default:
		return fmt.Errorf("unknown output format %q", outputFlag)
	}
}

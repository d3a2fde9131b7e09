// Command yamlget prints one value of a YAML (or JSONC) configuration file.
//
//	yamlget [-f file] [-t type] [-d default] [-e] [-o yaml|json] [path]
//
// The path uses the dotted syntax of the config package, e.g. services.names[1].first;
// no path prints the whole document. Exit status is 0 on success, 1 when the key is
// absent and no default is given, 2 for any other error.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/0xalexb/yamlconfig"
	"github.com/0xalexb/yamlconfig/config"
	yamlparser "github.com/0xalexb/yamlconfig/config/parser/yaml"
)

const (
	exitOK          = 0
	exitKeyNotFound = 1
	exitError       = 2
)

const (
	outputYAML = "yaml"
	outputJSON = "json"
)

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	file     string
	kind     string
	def      string
	expand   bool
	output   string
	path     string
	defGiven bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}

	if err != nil {
		_, _ = fmt.Fprintf(stderr, "yamlget: %v\n", err)

		return exitError
	}

	value, err := lookup(opts, stdin)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "yamlget: %v\n", err)

		if errors.Is(err, config.ErrKeyNotFound) {
			return exitKeyNotFound
		}

		return exitError
	}

	err = render(stdout, value, opts.output)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "yamlget: %v\n", err)

		return exitError
	}

	return exitOK
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options

	flagSet := pflag.NewFlagSet("yamlget", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&opts.file, "file", "f", "-", "configuration file, - for stdin")
	flagSet.StringVarP(&opts.kind, "type", "t", "", "read the value as any|string|int|float|bool|duration|list|map")
	flagSet.StringVarP(&opts.def, "default", "d", "", "print this when the key is absent")
	flagSet.BoolVarP(&opts.expand, "env", "e", false, "expand ${VAR} and ${VAR:-default} in string values")
	flagSet.StringVarP(&opts.output, "output", "o", outputYAML, "output format, yaml or json")

	err := flagSet.Parse(args)
	if err != nil {
		return opts, err
	}

	switch flagSet.NArg() {
	case 0:
	case 1:
		opts.path = flagSet.Arg(0)
	default:
		return opts, fmt.Errorf("%w: at most one path, got %d", errUsage, flagSet.NArg())
	}

	if opts.output != outputYAML && opts.output != outputJSON {
		return opts, fmt.Errorf("%w: unknown output format %q", errUsage, opts.output)
	}

	opts.defGiven = flagSet.Changed("default")

	return opts, nil
}

func lookup(opts options, stdin io.Reader) (any, error) {
	kind, err := config.ParseKind(opts.kind)
	if err != nil {
		return nil, err
	}

	var parserOpts []yamlparser.Option
	if opts.expand {
		parserOpts = append(parserOpts, yamlparser.WithEnvExpansion(nil))
	}

	var doc *config.Document
	if opts.file == "-" {
		doc, err = yamlconfig.LoadReader(stdin, parserOpts...)
	} else {
		doc, err = yamlconfig.LoadFile(opts.file, parserOpts...)
	}

	if err != nil {
		return nil, err
	}

	value, err := doc.As(opts.path, kind)
	if errors.Is(err, config.ErrKeyNotFound) && opts.defGiven {
		return opts.def, nil
	}

	return value, err
}

func render(w io.Writer, value any, format string) error {
	if duration, ok := value.(time.Duration); ok {
		value = duration.String()
	}

	if format == outputJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(config.JSONValue(value))
	}

	if text, ok := plainText(value); ok {
		_, err := fmt.Fprintln(w, text)

		return err
	}

	out, err := yamlparser.EncodeValue(value)
	if err != nil {
		return err
	}

	_, err = w.Write(out)

	return err
}

func plainText(value any) (string, bool) {
	switch typed := value.(type) {
	case nil:
		return "null", true
	case string:
		return typed, true
	case bool:
		return strconv.FormatBool(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case uint64:
		return strconv.FormatUint(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'g', -1, 64), true
	default:
		return "", false
	}
}

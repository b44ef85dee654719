// Command dbspec exercises the database engine adapters from the terminal:
// classify raw driver errors, validate connection parameters, print the
// parameters schema, build and parse connection URIs, and check reachability.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/halcyon-bi/dbspec/internal/config"
	"github.com/halcyon-bi/dbspec/internal/database"
	"github.com/halcyon-bi/dbspec/internal/engine"
	"github.com/halcyon-bi/dbspec/internal/engine/apex"
	"github.com/halcyon-bi/dbspec/internal/engine/cmic"
	"github.com/halcyon-bi/dbspec/internal/identity"
	"github.com/halcyon-bi/dbspec/internal/logging"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: dbspec [-config path] <command> [flags]

Commands:
  classify   -engine <name> [error text | reads stdin]
  validate   -engine <name> -param key=value ...
  schema     -engine <name>
  build-uri  -engine <name> -param key=value ...
  parse-uri  -engine <name> <uri>
  check      <connection uri>
  engines
`)
	os.Exit(2)
}

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.LoggerConfig{
		Level:       logging.Level(cfg.Logging.Level),
		Format:      cfg.Logging.Format,
		ServiceName: "dbspec",
	})

	registry := engine.NewRegistry()
	verifier := identity.NewClient(identity.Config{
		URL:     cfg.Identity.URL,
		Timeout: cfg.Identity.Timeout,
	}, logger)
	for _, spec := range []engine.Spec{apex.New(), cmic.New(verifier)} {
		if err := registry.Register(spec); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to register %s: %v\n", spec.Name(), err)
			os.Exit(1)
		}
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "classify":
		runClassify(registry, args)
	case "validate":
		runValidate(registry, args)
	case "schema":
		runSchema(registry, args)
	case "build-uri":
		runBuildURI(registry, args)
	case "parse-uri":
		runParseURI(registry, args)
	case "check":
		runCheck(args)
	case "engines":
		for _, name := range registry.Names() {
			fmt.Println(name)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		usage()
	}
}

// paramFlags collects repeated -param key=value pairs.
type paramFlags struct {
	params engine.Parameters
}

func (p *paramFlags) String() string { return "" }

func (p *paramFlags) Set(value string) error {
	key, val, found := strings.Cut(value, "=")
	if !found || key == "" {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	p.params[key] = val
	return nil
}

func lookupSpec(registry *engine.Registry, fs *flag.FlagSet, name string) engine.Spec {
	if name == "" {
		fmt.Fprintln(os.Stderr, "-engine is required")
		fs.Usage()
		os.Exit(2)
	}
	spec, ok := registry.Lookup(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown engine: %s (known: %s)\n", name, strings.Join(registry.Names(), ", "))
		os.Exit(1)
	}
	return spec
}

func runClassify(registry *engine.Registry, args []string) {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	engineName := fs.String("engine", "", "engine name")
	fs.Parse(args)

	spec := lookupSpec(registry, fs, *engineName)

	raw := strings.Join(fs.Args(), " ")
	if raw == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read stdin: %v\n", err)
			os.Exit(1)
		}
		raw = string(data)
	}

	classified := spec.Classify(raw)
	if classified == nil {
		fmt.Println("no classification")
		return
	}
	printJSON(classified)
}

func runValidate(registry *engine.Registry, args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	engineName := fs.String("engine", "", "engine name")
	params := paramFlags{params: engine.Parameters{}}
	fs.Var(&params, "param", "connection parameter as key=value (repeatable)")
	fs.Parse(args)

	spec := lookupSpec(registry, fs, *engineName)

	errs, err := spec.Validate(context.Background(), params.params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}
	if len(errs) == 0 {
		fmt.Println("parameters accepted")
		return
	}
	printJSON(errs)
	os.Exit(1)
}

func runSchema(registry *engine.Registry, args []string) {
	fs := flag.NewFlagSet("schema", flag.ExitOnError)
	engineName := fs.String("engine", "", "engine name")
	fs.Parse(args)

	spec := lookupSpec(registry, fs, *engineName)
	printJSON(spec.ParametersSchema())
}

func runBuildURI(registry *engine.Registry, args []string) {
	fs := flag.NewFlagSet("build-uri", flag.ExitOnError)
	engineName := fs.String("engine", "", "engine name")
	params := paramFlags{params: engine.Parameters{}}
	fs.Var(&params, "param", "connection parameter as key=value (repeatable)")
	fs.Parse(args)

	spec := lookupSpec(registry, fs, *engineName)
	fmt.Println(spec.BuildURI(params.params))
}

func runParseURI(registry *engine.Registry, args []string) {
	fs := flag.NewFlagSet("parse-uri", flag.ExitOnError)
	engineName := fs.String("engine", "", "engine name")
	fs.Parse(args)

	spec := lookupSpec(registry, fs, *engineName)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "parse-uri requires a URI argument")
		os.Exit(2)
	}

	params, err := spec.ParseURI(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse URI: %v\n", err)
		os.Exit(1)
	}
	printJSON(params)
}

func runCheck(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "check requires a connection URI argument")
		os.Exit(2)
	}

	if err := database.Check(context.Background(), args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Connection check failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("connection ok")
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode output: %v\n", err)
		os.Exit(1)
	}
}

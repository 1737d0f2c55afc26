package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mjmahone/fragc/internal/compiler"
	"github.com/mjmahone/fragc/internal/eventbus"
	"github.com/mjmahone/fragc/internal/otel"
	"github.com/mjmahone/fragc/internal/project"
	"github.com/mjmahone/fragc/internal/server"
	"github.com/mjmahone/fragc/internal/watch"
)

const rootUsage = `fragc — GraphQL fragment argument compiler

USAGE:
  fragc <command> [flags]

COMMANDS:
  check     Validate fragment argument usage in documents
  compile   Rewrite documents to argument-free GraphQL
  watch     Recompile documents as they change
  serve     Run the HTTP tool server
  help      Show help for any command
`

const checkUsage = `check FLAGS:
  -project <dir>   Project root holding fragc.yaml (default: .)
  [files...]       Check the given files instead of the project globs
  (exits non-zero when violations are found)
`

const compileUsage = `compile FLAGS:
  -project <dir>   Project root holding fragc.yaml (default: .)
  -out <dir>       Output directory (default: from fragc.yaml; stdout if unset)
  [files...]       Compile the given files instead of the project globs
`

const watchUsage = `watch FLAGS:
  -project <dir>        Project root holding fragc.yaml (default: .)
  -debounce <duration>  Delay before compiling a burst of changes (default: 500ms)
`

const serveUsage = `serve FLAGS:
  -project <dir>             Project root holding fragc.yaml (default: .)
  -server.addr <addr>        HTTP listen address (default: from fragc.yaml)
  -server.pretty             Pretty-print JSON responses
  -server.timeout <duration> Per-request timeout, e.g. 10s (default: 10s)
  -server.max-body <bytes>   Max request body size (default: 1048576)
  -server.cors <origin>      Allowed CORS origin. Repeatable
  -otel.endpoint <addr>      OTLP collector endpoint
  -otel.service <name>       OpenTelemetry service name (default: fragc)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("fragc", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "check":
		return cmdCheck(cmdArgs)
	case "compile":
		return cmdCompile(cmdArgs)
	case "watch":
		return cmdWatch(cmdArgs)
	case "serve":
		return cmdServe(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "check":
		fmt.Print(checkUsage)
	case "compile":
		fmt.Print(compileUsage)
	case "watch":
		fmt.Print(watchUsage)
	case "serve":
		fmt.Print(serveUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

type stringListFlag []string

func (s *stringListFlag) String() string { return "" }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// document is one unit of compilation resolved from flags or config.
type document struct {
	name   string
	source string
}

// collectDocuments resolves the documents to compile: explicit file
// arguments if given, otherwise the project globs from fragc.yaml.
func collectDocuments(projectDir string, files []string) ([]document, *project.Config, error) {
	if len(files) > 0 {
		docs := make([]document, 0, len(files))
		for _, path := range files {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, nil, err
			}
			docs = append(docs, document{name: path, source: string(data)})
		}
		return docs, project.DefaultConfig(), nil
	}

	cfgPath, err := project.FindConfig(projectDir)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := project.LoadFromFile(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	root := filepath.Dir(cfgPath)
	disc := project.NewFSDiscovery(root, cfg.Documents)
	ctx := context.Background()
	names, err := disc.ListDocuments(ctx)
	if err != nil {
		return nil, nil, err
	}
	docs := make([]document, 0, len(names))
	for _, name := range names {
		source, err := disc.ReadDocument(ctx, name)
		if err != nil {
			return nil, nil, err
		}
		docs = append(docs, document{name: name, source: source})
	}
	return docs, cfg, nil
}

func cmdCheck(args []string) error {
	projectDir := "."
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&projectDir, "project", projectDir, "Project root")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, checkUsage)
		return err
	}

	docs, _, err := collectDocuments(projectDir, fs.Args())
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no documents found")
	}

	ctx := context.Background()
	failed := 0
	for _, doc := range docs {
		if _, err := compiler.CompileSource(ctx, doc.name, doc.source); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", doc.name, err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(docs))
	}
	fmt.Printf("checked %d documents\n", len(docs))
	return nil
}

func cmdCompile(args []string) error {
	projectDir := "."
	outDir := ""
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&projectDir, "project", projectDir, "Project root")
	fs.StringVar(&outDir, "out", outDir, "Output directory")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, compileUsage)
		return err
	}

	docs, cfg, err := collectDocuments(projectDir, fs.Args())
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no documents found")
	}
	if outDir == "" {
		outDir = cfg.Out
	}

	ctx := context.Background()
	for _, doc := range docs {
		res, err := compiler.CompileSource(ctx, doc.name, doc.source)
		if err != nil {
			return fmt.Errorf("%s: %w", doc.name, err)
		}
		if err := writeOutput(outDir, doc.name, res.Rendered); err != nil {
			return err
		}
	}
	return nil
}

func writeOutput(outDir, name, rendered string) error {
	if outDir == "" {
		fmt.Printf("# %s\n%s", name, rendered)
		return nil
	}
	path := filepath.Join(outDir, filepath.Base(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(rendered), 0644)
}

func cmdWatch(args []string) error {
	projectDir := "."
	debounce := 500 * time.Millisecond
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&projectDir, "project", projectDir, "Project root")
	fs.DurationVar(&debounce, "debounce", debounce, "Debounce delay")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, watchUsage)
		return err
	}

	cfgPath, err := project.FindConfig(projectDir)
	if err != nil {
		return err
	}
	cfg, err := project.LoadFromFile(cfgPath)
	if err != nil {
		return err
	}
	root := filepath.Dir(cfgPath)

	w, err := watch.New(root, cfg.Documents, debounce, nil)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	for ev := range w.Events() {
		if ev.Err != nil {
			log.Printf("%s: %v", ev.Path, ev.Err)
			continue
		}
		if err := writeOutput(cfg.Out, ev.Path, ev.Rendered); err != nil {
			return err
		}
		log.Printf("compiled %s", ev.Path)
	}
	return nil
}

func cmdServe(args []string) error {
	projectDir := "."
	addr := ""
	pretty := false
	timeout := 10 * time.Second
	maxBody := int64(1 << 20)
	otelEndpoint := ""
	otelService := "fragc"
	var corsOrigins stringListFlag

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&projectDir, "project", projectDir, "Project root")
	fs.StringVar(&addr, "server.addr", addr, "HTTP listen address")
	fs.BoolVar(&pretty, "server.pretty", pretty, "Pretty-print JSON responses")
	fs.DurationVar(&timeout, "server.timeout", timeout, "Per-request timeout")
	fs.Int64Var(&maxBody, "server.max-body", maxBody, "Max request body size")
	fs.Var(&corsOrigins, "server.cors", "Allowed CORS origin")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, serveUsage)
		return err
	}

	// fragc.yaml is optional for serve; flags fill the gaps.
	cfg := project.DefaultConfig()
	if cfgPath, err := project.FindConfig(projectDir); err == nil {
		if cfg, err = project.LoadFromFile(cfgPath); err != nil {
			return err
		}
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}
	if cfg.Server.Pretty {
		pretty = true
	}
	if otelEndpoint == "" {
		otelEndpoint = cfg.Server.OTLPEndpoint
	}

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	var sopts []server.Option
	if pretty {
		sopts = append(sopts, server.WithPretty())
	}
	if timeout > 0 {
		sopts = append(sopts, server.WithTimeout(timeout))
	}
	if maxBody > 0 {
		sopts = append(sopts, server.WithMaxBodyBytes(maxBody))
	}
	if len(corsOrigins) > 0 {
		sopts = append(sopts, server.WithCORS(corsOrigins...))
	}
	h := server.New(sopts...)

	log.Printf("fragc tool server listening on %s", addr)
	return http.ListenAndServe(addr, h)
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"armbuilder/internal/config"
	"armbuilder/internal/edit"
	"armbuilder/internal/export"
	"armbuilder/internal/logging"
	"armbuilder/internal/model"
	"armbuilder/internal/schema"
	"armbuilder/internal/serverapp"
	"armbuilder/internal/task"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}

	var err error
	switch args[0] {
	case "serve":
		err = cmdServe(args[1:], stderr)
	case "schema":
		err = cmdSchema(args[1:], stdout)
	case "describe":
		err = cmdDescribe(args[1:], stdout)
	case "validate":
		err = cmdValidate(args[1:], stdin, stdout)
	default:
		printUsage(stderr)
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s failed: %v\n", args[0], err)
		return 1
	}
	return 0
}

func cmdServe(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", "armbuilder.yml", "path to YAML config (missing file uses defaults)")
	addr := fs.String("addr", "", "listen address, overrides server.addr")
	seed := fs.Bool("seed-demo", false, "start with a demo program")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *seed {
		cfg.Editor.SeedDemo = true
	}

	logger, _, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Journal: cfg.Log.Journal,
		Writer:  stderr,
	})
	if err != nil {
		return err
	}

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "move_unit", cfg.MoveUnit())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func cmdSchema(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	unit := fs.String("unit", "cm", "move display unit (cm or mm)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	u, err := schema.ParseLengthUnit(*unit)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(schema.NewRegistry(u).Catalog())
}

// describe --type move x=150 y=20
//
// Values are typed as in the editor, in display units, and committed the
// same way: clamped and converted.
func cmdDescribe(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("describe", flag.ContinueOnError)
	kind := fs.String("type", "", "task type (move, grip, release, wait)")
	unit := fs.String("unit", "cm", "move display unit (cm or mm)")
	asJSON := fs.Bool("json", false, "print the whole task as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	k := model.Kind(strings.ToLower(strings.TrimSpace(*kind)))
	if !k.Valid() {
		return fmt.Errorf("unknown task type %q", *kind)
	}
	u, err := schema.ParseLengthUnit(*unit)
	if err != nil {
		return err
	}
	reg := schema.NewRegistry(u)

	t := task.NewTask(k)
	for _, arg := range fs.Args() {
		key, text, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected key=value, got %q", arg)
		}
		spec, ok := reg.Spec(k, key)
		if !ok {
			return fmt.Errorf("%q is not a %s parameter", key, k)
		}
		next, ok := edit.CommitDraft(t, key, spec, text)
		if !ok {
			return fmt.Errorf("%s=%q is not a number", key, text)
		}
		t = next
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	}
	_, err = fmt.Fprintln(stdout, t.Description)
	return err
}

func cmdValidate(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	file := fs.String("file", "", "exported task document, - for stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("file is required")
	}

	var (
		data []byte
		err  error
	)
	if *file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(*file)
	}
	if err != nil {
		return err
	}

	doc, err := export.Parse(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "ok: %d tasks (version %s)\n", doc.TaskCount, doc.Version)
	for i, t := range doc.Tasks {
		fmt.Fprintf(stdout, "%d. %s\n", i+1, t.Description)
	}
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage:")
	fmt.Fprintln(w, "  armbuilder serve [--config armbuilder.yml] [--addr :8080] [--seed-demo]")
	fmt.Fprintln(w, "  armbuilder schema [--unit cm|mm]")
	fmt.Fprintln(w, "  armbuilder describe --type move [--unit cm|mm] [--json] x=150 y=20 z=0")
	fmt.Fprintln(w, "  armbuilder validate --file tasks.json")
}


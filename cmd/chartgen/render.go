package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	chartgen "github.com/goliatone/go-chartgen"
	"github.com/goliatone/go-chartgen/pkg/orchestrator"
	"github.com/goliatone/go-chartgen/pkg/payload"
)

type renderFlags struct {
	payload   string
	page      string
	backend   string
	output    string
	title     string
	allowHTTP bool
	timeout   time.Duration
}

func newRenderCmd(d deps) *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a payload into an HTML page",
		Example: `  # Render into a generated page on stdout
  chartgen render --payload dashboard.json

  # Mount into an existing page with the SVG backend
  chartgen render --payload dashboard.yaml --page index.html --backend gochart --output out.html

  # Read the payload from stdin
  cat dashboard.json | chartgen render --payload -`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, d, flags)
		},
	}

	cmd.Flags().StringVar(&flags.payload, "payload", "", "payload path, URL, or - for stdin")
	cmd.Flags().StringVar(&flags.page, "page", "", "host HTML page holding the mount targets (a page is generated if empty)")
	cmd.Flags().StringVar(&flags.backend, "backend", "", "backend used to draw the figures")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&flags.title, "title", "", "title of the generated page")
	cmd.Flags().BoolVar(&flags.allowHTTP, "allow-http", false, "allow loading payloads over http(s)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 10*time.Second, "timeout for remote payloads")
	_ = cmd.MarkFlagRequired("payload")

	return cmd
}

func runRender(cmd *cobra.Command, d deps, flags renderFlags) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	src, err := parseSource(flags.payload, d.stdin)
	if err != nil {
		return err
	}

	loaderOptions := []payload.LoaderOption{}
	if flags.allowHTTP {
		loaderOptions = append(loaderOptions, payload.WithHTTPFallback(flags.timeout))
	}
	options := append([]orchestrator.Option{
		orchestrator.WithLoader(chartgen.NewLoader(loaderOptions...)),
	}, d.options...)
	gen := orchestrator.New(options...)

	backendName, err := chooseBackend(d, gen, flags.backend)
	if err != nil {
		return err
	}

	req := orchestrator.Request{
		Source:  src,
		Backend: backendName,
		Title:   flags.title,
	}
	if flags.page != "" {
		page, err := os.Open(flags.page)
		if err != nil {
			return fmt.Errorf("open page: %w", err)
		}
		defer page.Close()
		req.Page = page
	}

	logger.Debug().
		Str("payload", src.Location()).
		Str("backend", backendName).
		Str("page", flags.page).
		Msg("rendering payload")

	out, err := gen.Generate(ctx, req)
	if err != nil {
		logger.Error().Err(err).Str("payload", src.Location()).Msg("render failed")
		return err
	}

	if flags.output == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(flags.output, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info().Str("output", flags.output).Int("bytes", len(out)).Msg("page written")
	return nil
}

func parseSource(raw string, stdin io.Reader) (payload.Source, error) {
	path := strings.TrimSpace(raw)
	switch {
	case path == "":
		return nil, errors.New("payload is required")
	case path == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return payload.SourceFromBytes("stdin", data), nil
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return payload.SourceFromURL(path), nil
	default:
		return payload.SourceFromFile(path), nil
	}
}

// chooseBackend asks for a backend on interactive terminals when none was
// given. Non-interactive runs fall through to the orchestrator default.
func chooseBackend(d deps, gen *orchestrator.Orchestrator, name string) (string, error) {
	if name != "" || d.interactive == nil || d.prompt == nil || !d.interactive() {
		return name, nil
	}
	options := gen.Backends()
	if len(options) < 2 {
		return name, nil
	}
	return d.prompt(options, "plotly")
}


// Command mosaic chunks documents from the command line. It reads files
// (or stdin), runs the configured segmentation strategy over each one, and
// prints a per-file report or the full previews as JSON.
//
//	mosaic -strategy semantic -size 400 docs/*.md
//	cat notes.txt | mosaic -json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	mosaic "github.com/nevindra/mosaic"
	"github.com/nevindra/mosaic/ingest"
	"github.com/nevindra/mosaic/ingest/pdf"
	"github.com/nevindra/mosaic/internal/config"
	"github.com/nevindra/mosaic/observer"
)

// overrides are the flag values that beat both the config file and the
// per-extension profiles. Zero (or -1 for overlap) means "not set".
type overrides struct {
	strategy mosaic.Strategy
	size     int
	overlap  int
}

func (o overrides) apply(p mosaic.Params) mosaic.Params {
	if o.strategy != "" {
		p.Strategy = o.strategy
	}
	if o.size > 0 {
		p.TargetSize = o.size
	}
	if o.overlap >= 0 {
		p.Overlap = o.overlap
	}
	return p
}

// report is the outcome of chunking one input.
type report struct {
	path    string
	params  mosaic.Params
	preview ingest.Preview
	err     error
}

func main() {
	_ = godotenv.Load()

	// 1. Flags
	var (
		cfgPath     = flag.String("config", os.Getenv("MOSAIC_CONFIG"), "path to TOML config file")
		strategyStr = flag.String("strategy", "", "segmentation strategy: fixed, sentence, paragraph, semantic or sliding")
		size        = flag.Int("size", 0, "target chunk size (characters, or tokens for semantic/sliding)")
		overlap     = flag.Int("overlap", -1, "overlap between consecutive chunks")
		workers     = flag.Int("workers", 0, "files to process concurrently")
		show        = flag.Int("show", 5, "chunk previews to print per file (-1 for all)")
		asJSON      = flag.Bool("json", false, "emit full previews as JSON instead of a report")
	)
	flag.Parse()

	ov := overrides{size: *size, overlap: *overlap}
	if *strategyStr != "" {
		s, ok := mosaic.ParseStrategy(*strategyStr)
		if !ok {
			log.Fatalf("unknown strategy %q (want fixed, sentence, paragraph, semantic or sliding)", *strategyStr)
		}
		ov.strategy = s
	}

	// 2. Load config
	cfg := config.Load(*cfgPath)
	if *workers > 0 {
		cfg.Ingest.Workers = *workers
	}

	// 3. Observer (opt-in via config)
	var inst *observer.Instruments
	var shutdown func(context.Context) error
	if cfg.Observer.Enabled {
		if cfg.Observer.Endpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Observer.Endpoint)
		}
		var err error
		inst, shutdown, err = observer.Init(context.Background())
		if err != nil {
			log.Fatalf("observer init failed: %v", err)
		}
	}

	// 4. Chunk every input through a bounded worker pool
	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	reports := chunkAll(cfg, ov, inst, paths)

	// 5. Report
	var failed int
	if *asJSON {
		failed = printJSON(os.Stdout, reports)
	} else {
		failed = printReports(os.Stdout, reports, *show)
	}

	// 6. Flush telemetry and exit
	if shutdown != nil {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("observer shutdown: %v", err)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// chunkAll previews every path, at most cfg.Ingest.Workers at a time.
// Results keep the argument order regardless of completion order.
func chunkAll(cfg config.Config, ov overrides, inst *observer.Instruments, paths []string) []report {
	reports := make([]report, len(paths))

	numWorkers := min(cfg.Ingest.Workers, len(paths))
	work := make(chan int, len(paths))
	done := make(chan struct{})

	for w := 0; w < numWorkers; w++ {
		go func() {
			for i := range work {
				reports[i] = previewOne(cfg, ov, inst, paths[i])
			}
			done <- struct{}{}
		}()
	}

	for i := range paths {
		work <- i
	}
	close(work)

	for w := 0; w < numWorkers; w++ {
		<-done
	}

	return reports
}

// previewOne chunks a single file, or stdin when path is "-".
func previewOne(cfg config.Config, ov overrides, inst *observer.Instruments, path string) report {
	params := ov.apply(cfg.ParamsFor(path))
	r := report{path: path, params: params}

	p := ingest.NewPipeline(
		ingest.WithParams(params),
		ingest.WithExtractor(ingest.TypePDF, pdf.Extractor{}),
	)

	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			r.err = fmt.Errorf("read stdin: %w", err)
			return r
		}
		r.preview = p.PreviewText(string(data), "stdin", "stdin")
		return r
	}

	data, err := os.ReadFile(path)
	if err != nil {
		r.err = err
		return r
	}
	if inst != nil {
		r.preview, r.err = observer.WrapPipeline(p, inst).Preview(context.Background(), data, path)
	} else {
		r.preview, r.err = p.Preview(data, path)
	}
	return r
}

func printReports(w io.Writer, reports []report, show int) int {
	failed := 0
	for _, r := range reports {
		if r.err != nil {
			failed++
			fmt.Fprintf(w, "%s: %v\n\n", r.path, r.err)
			continue
		}
		m := r.preview.Metrics
		fmt.Fprintf(w, "%s  (%s, %s %d/%d)\n",
			r.path, r.preview.ContentType, r.params.Strategy, r.params.TargetSize, r.params.Overlap)
		fmt.Fprintf(w, "  chunks %d  tokens min %d avg %.1f max %d  quality %.2f  took %v\n",
			m.TotalChunks, m.MinTokens, m.AvgTokens, m.MaxTokens, m.AvgQuality,
			m.Duration.Round(time.Microsecond))
		for _, note := range m.Insights {
			fmt.Fprintf(w, "  note: %s\n", note)
		}
		for i, c := range r.preview.Chunks {
			if show >= 0 && i >= show {
				fmt.Fprintf(w, "  ... %d more chunks\n", len(r.preview.Chunks)-i)
				break
			}
			fmt.Fprintf(w, "  [%d] %d tok  %s\n", c.Index, c.EstimatedTokens, snippet(c.Text, 72))
		}
		fmt.Fprintln(w)
	}
	return failed
}

func printJSON(w io.Writer, reports []report) int {
	type fileJSON struct {
		Path    string          `json:"path"`
		Error   string          `json:"error,omitempty"`
		Preview *ingest.Preview `json:"preview,omitempty"`
	}
	out := make([]fileJSON, len(reports))
	failed := 0
	for i, r := range reports {
		out[i] = fileJSON{Path: r.path}
		if r.err != nil {
			failed++
			out[i].Error = r.err.Error()
			continue
		}
		pv := r.preview
		out[i].Preview = &pv
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Printf("encode output: %v", err)
	}
	return failed
}

// snippet flattens whitespace and truncates to at most n runes.
func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

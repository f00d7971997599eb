// Command mosaic-tui opens a document in the interactive chunk explorer.
//
//	mosaic-tui docs/guide.md
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/nevindra/mosaic/ingest"
	"github.com/nevindra/mosaic/ingest/pdf"
	"github.com/nevindra/mosaic/internal/config"
	"github.com/nevindra/mosaic/internal/tui"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", os.Getenv("MOSAIC_CONFIG"), "path to TOML config file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Usage: mosaic-tui [-config mosaic.toml] document.md")
		os.Exit(1)
	}
	path := flag.Arg(0)

	cfg := config.Load(*cfgPath)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}

	// Extract once; the explorer re-chunks the extracted text on the fly.
	p := ingest.NewPipeline(ingest.WithExtractor(ingest.TypePDF, pdf.Extractor{}))
	pv, err := p.Preview(data, path)
	if err != nil {
		log.Fatalf("extract %s: %v", path, err)
	}

	m := tui.New(filepath.Base(path), pv.Document.Content, cfg.ParamsFor(path))
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}

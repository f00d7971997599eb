// Binary mosaic-mcp is an MCP server that exposes the chunking engine to
// AI assistants (Claude Code, Cursor, Windsurf, etc.) via the Model Context
// Protocol over stdio. Assistants can chunk text, estimate token counts,
// compare strategies, and search the produced chunks by keyword.
//
// Usage in .mcp.json:
//
//	{
//	  "mcpServers": {
//	    "mosaic": {
//	      "type": "stdio",
//	      "command": "go",
//	      "args": ["run", "github.com/nevindra/mosaic/cmd/mosaic-mcp@latest"]
//	    }
//	  }
//	}
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"strings"
	"unicode/utf8"

	mosaic "github.com/nevindra/mosaic"
	"github.com/nevindra/mosaic/docs"
	"github.com/nevindra/mosaic/internal/config"
	"github.com/nevindra/mosaic/mcp"
)

func main() {
	// stdout carries the protocol stream; everything else goes to stderr.
	log.SetOutput(os.Stderr)
	log.SetPrefix("")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg := config.Load(os.Getenv("MOSAIC_CONFIG"))

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	srv := mcp.New("mosaic", "0.1.0", mcp.WithLogger(logger))

	for _, r := range loadNotes() {
		srv.AddResource(r)
	}

	srv.AddTool(chunkTextTool(cfg.Chunking))
	srv.AddTool(estimateTokensTool())
	srv.AddTool(compareStrategiesTool(cfg.Chunking))
	srv.AddTool(queryChunksTool(cfg.Chunking))

	if err := srv.Serve(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("mosaic-mcp: %v", err)
	}
}

// chunkArgs are the arguments shared by the chunking tools. Overlap is a
// pointer so an explicit 0 can be told apart from "not set".
type chunkArgs struct {
	Text       string `json:"text"`
	Strategy   string `json:"strategy"`
	TargetSize int    `json:"target_size"`
	Overlap    *int   `json:"overlap"`
	Query      string `json:"query"`
}

// params merges the caller's arguments over the configured defaults.
func (a chunkArgs) params(base mosaic.Params) (mosaic.Params, error) {
	p := base
	if a.Strategy != "" {
		s, ok := mosaic.ParseStrategy(a.Strategy)
		if !ok {
			return p, fmt.Errorf("unknown strategy %q", a.Strategy)
		}
		p.Strategy = s
	}
	if a.TargetSize > 0 {
		p.TargetSize = a.TargetSize
	}
	if a.Overlap != nil {
		p.Overlap = *a.Overlap
	}
	return p, nil
}

// chunkProperties is the shared input schema for tools that take text plus
// chunking parameters.
func chunkProperties() map[string]any {
	return map[string]any{
		"text": map[string]any{
			"type":        "string",
			"description": "Document text to chunk",
		},
		"strategy": map[string]any{
			"type":        "string",
			"description": "Chunking strategy: fixed, sentence, paragraph, semantic, or sliding (defaults to the configured strategy)",
		},
		"target_size": map[string]any{
			"type":        "integer",
			"description": "Target chunk size in estimated tokens",
		},
		"overlap": map[string]any{
			"type":        "integer",
			"description": "Token overlap between adjacent chunks",
		},
	}
}

func chunkTextTool(base mosaic.Params) mcp.Tool {
	return mcp.Tool{
		Definition: mcp.ToolDefinition{
			Name:        "chunk_text",
			Description: "Split text into chunks using one of five strategies. Returns the chunks with token estimates and quality scores, plus aggregate metrics, as JSON.",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": chunkProperties(),
				"required":   []string{"text"},
			},
		},
		Handler: func(_ context.Context, args json.RawMessage) mcp.Result {
			var a chunkArgs
			if err := json.Unmarshal(args, &a); err != nil {
				return mcp.Errorf("invalid args: %v", err)
			}
			if a.Text == "" {
				return mcp.Errorf("text is required")
			}
			p, err := a.params(base)
			if err != nil {
				return mcp.Errorf("%v", err)
			}

			chunks, metrics := mosaic.ChunkWithMetrics(a.Text, p)
			out, err := json.MarshalIndent(struct {
				Params  mosaic.Params  `json:"params"`
				Chunks  []mosaic.Chunk `json:"chunks"`
				Metrics mosaic.Metrics `json:"metrics"`
			}{p, chunks, metrics}, "", "  ")
			if err != nil {
				return mcp.Errorf("encode result: %v", err)
			}
			return mcp.Text(string(out))
		},
	}
}

func estimateTokensTool() mcp.Tool {
	return mcp.Tool{
		Definition: mcp.ToolDefinition{
			Name:        "estimate_tokens",
			Description: "Estimate how many LLM tokens a piece of text contains, without calling a tokenizer.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{
						"type":        "string",
						"description": "Text to estimate",
					},
				},
				"required": []string{"text"},
			},
		},
		Handler: func(_ context.Context, args json.RawMessage) mcp.Result {
			var a chunkArgs
			if err := json.Unmarshal(args, &a); err != nil {
				return mcp.Errorf("invalid args: %v", err)
			}

			out, err := json.MarshalIndent(struct {
				EstimatedTokens int `json:"estimated_tokens"`
				Characters      int `json:"characters"`
				Words           int `json:"words"`
			}{
				EstimatedTokens: mosaic.EstimateTokens(a.Text),
				Characters:      utf8.RuneCountInString(a.Text),
				Words:           len(strings.Fields(a.Text)),
			}, "", "  ")
			if err != nil {
				return mcp.Errorf("encode result: %v", err)
			}
			return mcp.Text(string(out))
		},
	}
}

func compareStrategiesTool(base mosaic.Params) mcp.Tool {
	return mcp.Tool{
		Definition: mcp.ToolDefinition{
			Name:        "compare_strategies",
			Description: "Chunk the same text with every strategy and return a comparison table of chunk counts, token spreads, and quality scores.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{
						"type":        "string",
						"description": "Document text to chunk",
					},
					"target_size": map[string]any{
						"type":        "integer",
						"description": "Target chunk size in estimated tokens",
					},
					"overlap": map[string]any{
						"type":        "integer",
						"description": "Token overlap between adjacent chunks",
					},
				},
				"required": []string{"text"},
			},
		},
		Handler: func(_ context.Context, args json.RawMessage) mcp.Result {
			var a chunkArgs
			if err := json.Unmarshal(args, &a); err != nil {
				return mcp.Errorf("invalid args: %v", err)
			}
			if a.Text == "" {
				return mcp.Errorf("text is required")
			}
			p, err := a.params(base)
			if err != nil {
				return mcp.Errorf("%v", err)
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Compared %d strategies over %d characters (target %d tokens, overlap %d):\n\n",
				len(mosaic.Strategies()), utf8.RuneCountInString(a.Text), p.TargetSize, p.Overlap)
			b.WriteString("| Strategy | Chunks | Min tok | Avg tok | Max tok | Quality |\n")
			b.WriteString("|----------|-------:|--------:|--------:|--------:|--------:|\n")

			for _, s := range mosaic.Strategies() {
				sp := p
				sp.Strategy = s
				_, m := mosaic.ChunkWithMetrics(a.Text, sp)
				fmt.Fprintf(&b, "| %s | %d | %d | %.1f | %d | %.2f |\n",
					s, m.TotalChunks, m.MinTokens, m.AvgTokens, m.MaxTokens, m.AvgQuality)
			}
			return mcp.Text(b.String())
		},
	}
}

func queryChunksTool(base mosaic.Params) mcp.Tool {
	return mcp.Tool{
		Definition: mcp.ToolDefinition{
			Name:        "query_chunks",
			Description: "Chunk text and rank the chunks against a keyword query with BM25. Shows which chunk a retrieval pipeline would surface for that query.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": func() map[string]any {
					props := chunkProperties()
					props["query"] = map[string]any{
						"type":        "string",
						"description": "Keyword query to rank chunks against",
					}
					return props
				}(),
				"required": []string{"text", "query"},
			},
		},
		Handler: func(_ context.Context, args json.RawMessage) mcp.Result {
			var a chunkArgs
			if err := json.Unmarshal(args, &a); err != nil {
				return mcp.Errorf("invalid args: %v", err)
			}
			if a.Text == "" {
				return mcp.Errorf("text is required")
			}
			if a.Query == "" {
				return mcp.Errorf("query is required")
			}
			p, err := a.params(base)
			if err != nil {
				return mcp.Errorf("%v", err)
			}

			chunks := mosaic.ChunkText(a.Text, p)
			idx := newChunkIndex(chunks)
			return mcp.Text(formatHits(a.Query, idx.search(a.Query)))
		},
	}
}

// loadNotes reads the embedded strategy notes and returns them as MCP
// resources.
func loadNotes() []mcp.Resource {
	var resources []mcp.Resource

	if content, err := fs.ReadFile(docs.FS, "overview.md"); err == nil {
		resources = append(resources, mcp.Resource{
			URI:         "mosaic://overview",
			Name:        "Strategy Overview",
			Description: "How the five chunking strategies differ and when to use each",
			MimeType:    "text/markdown",
			Read:        func() string { return string(content) },
		})
	}

	entries, err := fs.ReadDir(docs.FS, "strategies")
	if err != nil {
		return resources
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		content, err := fs.ReadFile(docs.FS, path.Join("strategies", e.Name()))
		if err != nil {
			continue
		}

		slug := strings.TrimSuffix(e.Name(), ".md")
		resources = append(resources, mcp.Resource{
			URI:         "mosaic://strategies/" + slug,
			Name:        toTitle(slug) + " Strategy",
			Description: "Notes on the " + slug + " chunking strategy",
			MimeType:    "text/markdown",
			Read:        func() string { return string(content) },
		})
	}

	return resources
}

// toTitle converts a slug like "sliding-window" to "Sliding Window".
func toTitle(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Package docs embeds the strategy notes served by the MCP server's
// resources endpoint.
package docs

import "embed"

// FS holds the overview and the per-strategy notes. Use embed.FS methods
// to read files.
//
//go:embed overview.md strategies
var FS embed.FS

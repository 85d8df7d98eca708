package main

import (
	"fmt"
	"strings"

	wrap "github.com/wraplang/goclient"
)

// printHistory renders a resolution history tree, one line per step,
// children indented under their parent — the shape `wrapctl resolve`
// prints. The debug server's /debug/history endpoint does not use it;
// it encodes the same steps as JSON.
func printHistory(steps []wrap.UriResolutionStep, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, s := range steps {
		status := "ok"
		if !s.Ok() {
			status = fmt.Sprintf("error: %v", s.Err)
		}
		desc := s.Description
		if desc == "" {
			desc = "step"
		}
		fmt.Printf("%s- [%s] %s -> %s\n", indent, desc, s.SourceUri, status)
		if len(s.SubHistory) > 0 {
			printHistory(s.SubHistory, depth+1)
		}
	}
}

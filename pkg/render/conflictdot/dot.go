// Package conflictdot renders a day's conflict graph with Graphviz.
//
// Each block is a node and each pair of overlapping blocks an undirected
// edge. Nodes are grouped into ranks by depth, so columns read left to
// right, and fixed blocks are drawn filled.
package conflictdot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/blockweek/pkg/block"
	bwerrors "github.com/matzehuels/blockweek/pkg/errors"
	"github.com/matzehuels/blockweek/pkg/render"
)

// Options configures DOT output.
type Options struct {
	// Detailed adds clock range, depth and path depth to node labels.
	Detailed bool
	// Title labels the graph, usually with the day name.
	Title string
}

// ToDOT converts one day's blocks to Graphviz DOT. Neighbors must be built.
func ToDOT(blocks []block.Block, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded\", fontsize=14, margin=\"0.15,0.08\"];\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("\n")

	byDepth := map[int][]int{}
	maxDepth := 0
	for i, b := range blocks {
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(i), strings.Join(attrs(b, opts.Detailed), ", "))
		byDepth[b.Depth] = append(byDepth[b.Depth], i)
		maxDepth = max(maxDepth, b.Depth)
	}

	if len(blocks) > 0 {
		buf.WriteString("\n")
		for d := 0; d <= maxDepth; d++ {
			members := byDepth[d]
			if len(members) == 0 {
				continue
			}
			ids := make([]string, len(members))
			for k, i := range members {
				ids[k] = nodeID(i)
			}
			fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(ids, "; "))
		}
	}

	buf.WriteString("\n")
	for i, b := range blocks {
		for _, j := range b.Neighbors {
			if i < j {
				fmt.Fprintf(&buf, "  %s -- %s;\n", nodeID(i), nodeID(j))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(i int) string { return "b" + strconv.Itoa(i) }

func label(b block.Block, detailed bool) string {
	name := b.ID
	if b.Title != "" {
		name = b.Title
	}
	if !detailed {
		return name
	}
	return fmt.Sprintf("%s\n%s-%s\ndepth %d/%d", name,
		bwerrors.FormatClock(b.Start), bwerrors.FormatClock(b.End), b.Depth, b.PathDepth)
}

func attrs(b block.Block, detailed bool) []string {
	out := []string{fmt.Sprintf("label=%q", label(b, detailed))}
	if b.Fixed {
		out = append(out, "style=\"rounded,filled\"", fmt.Sprintf("fillcolor=%q", render.Color(b.ID)))
	} else {
		out = append(out, "style=\"rounded,dashed\"")
	}
	return out
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with a
// viewBox-only one so the image scales in a browser.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

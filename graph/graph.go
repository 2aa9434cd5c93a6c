// Package graph implements the NetBots control-flow-graph front end: a JSON
// block/connection format that lowers to the same bytecode container as the
// textual front end (lang/compiler), via the worklist layout algorithm in
// layout.go.
package graph

import (
	"encoding/json"
	"fmt"
)

// GraphError is a CFG invariant violation: missing id/type, an edge
// referencing an undeclared block, a duplicate edge, no entry block (or
// more than one), a malformed if/loop config, or a non-branching block with
// more than one successor.
type GraphError struct {
	Msg string
}

func (e *GraphError) Error() string { return e.Msg }

func fail(format string, args ...any) error {
	return &GraphError{Msg: fmt.Sprintf(format, args...)}
}

// Block is one node of a NetBots graph: an opaque type tag plus a
// JSON-object config whose shape depends on that type (spec §3 "each block
// {id, type, config}").
type Block struct {
	ID     string
	Type   string
	Config map[string]any
}

// Graph is the validated CFG: declared blocks plus successor/predecessor
// adjacency built from its connections (spec §3 "directed edges recorded as
// successors/predecessors").
type Graph struct {
	Blocks      []*Block
	byID        map[string]*Block
	successors  map[string][]string
	predecessors map[string][]string
	entry       string
}

type jsonBlock struct {
	ID     string          `json:"id"`
	Type   string          `json:"type"`
	Config json.RawMessage `json:"config"`
}

type jsonConnection struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type jsonGraph struct {
	Blocks      []jsonBlock      `json:"blocks"`
	Connections []jsonConnection `json:"connections"`
}

// Parse decodes and validates a NetBots graph document, enforcing every
// invariant in spec §3: declared endpoints, no duplicate edges, exactly one
// entry block, well-formed if/loop configs, and at most one successor for
// every other block type.
func Parse(data []byte) (*Graph, error) {
	var doc jsonGraph
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fail("graph: invalid JSON: %v", err)
	}

	g := &Graph{
		byID:         make(map[string]*Block, len(doc.Blocks)),
		successors:   make(map[string][]string),
		predecessors: make(map[string][]string),
	}
	for _, jb := range doc.Blocks {
		if jb.ID == "" {
			return nil, fail("graph: block missing id")
		}
		if jb.Type == "" {
			return nil, fail("graph: block %q missing type", jb.ID)
		}
		if _, dup := g.byID[jb.ID]; dup {
			return nil, fail("graph: duplicate block id %q", jb.ID)
		}
		b := &Block{ID: jb.ID, Type: jb.Type}
		if len(jb.Config) > 0 {
			if err := json.Unmarshal(jb.Config, &b.Config); err != nil {
				return nil, fail("graph: block %q has invalid config: %v", jb.ID, err)
			}
		}
		g.byID[jb.ID] = b
		g.Blocks = append(g.Blocks, b)
	}

	seen := make(map[[2]string]bool, len(doc.Connections))
	for _, c := range doc.Connections {
		if _, ok := g.byID[c.From]; !ok {
			return nil, fail("graph: connection references unknown block %q", c.From)
		}
		if _, ok := g.byID[c.To]; !ok {
			return nil, fail("graph: connection references unknown block %q", c.To)
		}
		key := [2]string{c.From, c.To}
		if seen[key] {
			return nil, fail("graph: duplicate edge %s -> %s", c.From, c.To)
		}
		seen[key] = true
		g.successors[c.From] = append(g.successors[c.From], c.To)
		g.predecessors[c.To] = append(g.predecessors[c.To], c.From)
	}

	if err := g.validateEntry(); err != nil {
		return nil, err
	}
	if err := g.validateBranching(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Graph) validateEntry() error {
	var entries []string
	for _, b := range g.Blocks {
		if len(g.predecessors[b.ID]) == 0 {
			entries = append(entries, b.ID)
		}
	}
	switch len(entries) {
	case 0:
		return fail("graph: no entry block (every block has a predecessor)")
	case 1:
		g.entry = entries[0]
		return nil
	default:
		return fail("graph: multiple start blocks: %v", entries)
	}
}

func (g *Graph) validateBranching() error {
	for _, b := range g.Blocks {
		succ := g.successors[b.ID]
		switch b.Type {
		case "if":
			trueTarget, _ := b.Config["trueTarget"].(string)
			falseTarget, _ := b.Config["falseTarget"].(string)
			if trueTarget == "" || falseTarget == "" {
				return fail("graph: if block %q missing trueTarget/falseTarget", b.ID)
			}
			if len(succ) != 2 || !hasBoth(succ, trueTarget, falseTarget) {
				return fail("graph: if block %q must have exactly two outgoing edges matching trueTarget/falseTarget", b.ID)
			}
		case "loop":
			bodyStart, _ := b.Config["bodyStart"].(string)
			exitTarget, _ := b.Config["exitTarget"].(string)
			if bodyStart == "" || exitTarget == "" {
				return fail("graph: loop block %q missing bodyStart/exitTarget", b.ID)
			}
			if len(succ) != 2 || !hasBoth(succ, bodyStart, exitTarget) {
				return fail("graph: loop block %q must have exactly two outgoing edges matching bodyStart/exitTarget", b.ID)
			}
		default:
			if len(succ) > 1 {
				return fail("graph: block %q of type %q has more than one successor", b.ID, b.Type)
			}
		}
	}
	return nil
}

func hasBoth(succ []string, a, b string) bool {
	var hasA, hasB bool
	for _, s := range succ {
		if s == a {
			hasA = true
		}
		if s == b {
			hasB = true
		}
	}
	return hasA && hasB
}

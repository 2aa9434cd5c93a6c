package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mna/aheadc/container"
	"github.com/mna/aheadc/graph"
	"github.com/mna/aheadc/lang/compiler"
	"github.com/mna/aheadc/lang/parser"
	"github.com/mna/aheadc/lang/resolver"
)

type compileOptions struct {
	SourcePath   string
	Format       string
	OutPath      string
	MagicVersion int
	Verbose      bool
}

// defaultMagicVersion is the current revision's version digit per format,
// used when --magic-version is left at its zero value.
var defaultMagicVersion = map[string]int{
	"program": 3,
	"netbots": 2,
}

var magicPrefix = map[string]string{
	"program": "PBO",
	"netbots": "NBO",
}

func runCompile(opts compileOptions) error {
	log := logrus.WithFields(logrus.Fields{
		"phase":  "compile",
		"source": opts.SourcePath,
		"format": opts.Format,
	})
	if opts.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	prefix, ok := magicPrefix[opts.Format]
	if !ok {
		return fmt.Errorf("aheadc: unknown --format %q (want \"program\" or \"netbots\")", opts.Format)
	}
	version := opts.MagicVersion
	if version == 0 {
		version = defaultMagicVersion[opts.Format]
	}
	magic := fmt.Sprintf("%s%d", prefix, version)

	start := time.Now()
	log.Info("compile starting")

	source, err := os.ReadFile(opts.SourcePath)
	if err != nil {
		log.WithError(err).Error("compile failed")
		return fmt.Errorf("aheadc: reading %s: %w", opts.SourcePath, err)
	}

	var prog *compiler.Program
	switch opts.Format {
	case "program":
		prog, err = compileProgram(opts.SourcePath, source)
	case "netbots":
		prog, err = compileNetBots(source)
	}
	if err != nil {
		log.WithError(err).Error("compile failed")
		return err
	}

	raw, err := container.Assemble(magic, prog)
	if err != nil {
		log.WithError(err).Error("compile failed")
		return fmt.Errorf("aheadc: assembling container: %w", err)
	}

	if err := os.WriteFile(opts.OutPath, raw, 0o644); err != nil {
		log.WithError(err).Error("compile failed")
		return fmt.Errorf("aheadc: writing %s: %w", opts.OutPath, err)
	}

	log.WithFields(logrus.Fields{
		"out":      opts.OutPath,
		"bytes":    len(raw),
		"duration": time.Since(start),
	}).Info("compile done")
	return nil
}

func compileProgram(filename string, source []byte) (*compiler.Program, error) {
	astProg, err := parser.Parse(filename, source)
	if err != nil {
		return nil, fmt.Errorf("aheadc: parse: %w", err)
	}
	if err := resolver.Resolve(filename, astProg); err != nil {
		return nil, fmt.Errorf("aheadc: resolve: %w", err)
	}
	prog, err := compiler.Emit(astProg)
	if err != nil {
		return nil, fmt.Errorf("aheadc: emit: %w", err)
	}
	return prog, nil
}

func compileNetBots(source []byte) (*compiler.Program, error) {
	g, err := graph.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("aheadc: graph parse: %w", err)
	}
	prog, err := graph.Emit(g)
	if err != nil {
		return nil, fmt.Errorf("aheadc: graph emit: %w", err)
	}
	return prog, nil
}

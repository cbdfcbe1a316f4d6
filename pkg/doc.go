// Package pkg provides the core libraries for framegrid, a frameset layout
// engine.
//
// # Overview
//
// A frameset is a tree of grid containers. Each container splits its
// rectangle into rows and columns from length lists such as "80,*" or
// "30%,2*,*". Leaves sit in the cells, and the bands between cells are
// borders that can be dragged to resize neighbouring tracks. The pkg
// directory is organized into these areas:
//
//  1. [core/frameset] - The engine (track allocation, edge aggregation,
//     placement, resize sessions, pointer dispatch)
//  2. [config] - TOML/JSON frameset descriptions and length-list parsing
//  3. [snapshot] - Serialized layouts
//  4. [render] - SVG, terminal text and Graphviz output
//  5. [pipeline] - Orchestration (load → layout → render) with caching
//  6. [cache], [session] - Storage backends and persisted resize deltas
//
// # Architecture
//
// The typical data flow through framegrid:
//
//	TOML description
//	       ↓
//	  [config] package (parse, validate, build tree)
//	       ↓
//	  [core/frameset] package (layout, resize deltas)
//	       ↓
//	  [snapshot] package (rectangles + boundaries)
//	       ↓
//	  [render] packages → SVG/PNG/PDF/TXT/DOT/JSON
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/framegrid/pkg/config"
//	    "github.com/matzehuels/framegrid/pkg/core/frameset"
//	    "github.com/matzehuels/framegrid/pkg/render/svg"
//	    "github.com/matzehuels/framegrid/pkg/snapshot"
//	)
//
//	doc, _ := config.Load("mail.toml")
//	tree, paths, _ := config.Build(doc, frameset.Options{})
//	tree.Layout(doc.Width, doc.Height)
//	out := svg.Render(snapshot.Capture(tree, doc.Name, paths), svg.WithLabels())
//
// Most callers go through [pipeline.Runner] instead, which adds caching,
// session deltas and multi-format output:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{Path: "mail.toml"})
//
// # Main Packages
//
// [core/frameset] - Arena tree of containers and leaves. Layout is two
// passes: edge aggregation decides which boundaries draw a border and
// which may be dragged, then each container distributes its extent over
// fixed, percentage and relative tracks and places its children. A
// [frameset.Dispatcher] turns pointer events into resize sessions.
//
// [config] - The description format, inheritance of border settings and
// the builder that turns a description into a tree.
//
// [cache] - File, Redis and MongoDB backends behind one interface, keyed
// by content hashes.
//
// [session] - Resize deltas keyed by UUID, so a dragged layout can be
// restored later or by another client.
//
// [observability] - Hooks for pipeline stages, cache lookups, resize
// interactions and HTTP requests.
//
// [errors] - Coded errors shared by the CLI and the HTTP API.
//
// [core/frameset]: github.com/matzehuels/framegrid/pkg/core/frameset
// [frameset.Dispatcher]: github.com/matzehuels/framegrid/pkg/core/frameset.Dispatcher
// [config]: github.com/matzehuels/framegrid/pkg/config
// [snapshot]: github.com/matzehuels/framegrid/pkg/snapshot
// [render]: github.com/matzehuels/framegrid/pkg/render
// [pipeline]: github.com/matzehuels/framegrid/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/framegrid/pkg/pipeline.Runner
// [cache]: github.com/matzehuels/framegrid/pkg/cache
// [session]: github.com/matzehuels/framegrid/pkg/session
// [observability]: github.com/matzehuels/framegrid/pkg/observability
// [errors]: github.com/matzehuels/framegrid/pkg/errors
package pkg

// Command tagdump renders a Markdown or HTML document into tagged page
// streams and dumps the assembled structure objects, for inspecting what
// the tagging engines decided.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tagpdf/tagpdf/dom"
	"github.com/tagpdf/tagpdf/ir/raw"
	"github.com/tagpdf/tagpdf/observability"
	"github.com/tagpdf/tagpdf/render"
	"github.com/tagpdf/tagpdf/writer"
)

type options struct {
	path    string
	title   string
	lang    string
	startID int
	verbose bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tagdump: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "tagdump: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: tagdump [flags] <doc.md|doc.html>\n")
		flag.PrintDefaults()
	}
	flag.StringVar(&opts.title, "title", "", "Document title")
	flag.StringVar(&opts.lang, "lang", "en", "Document language tag")
	flag.IntVar(&opts.startID, "start", 100, "First object id for structure records")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		return opts, fmt.Errorf("expected exactly one input file")
	}
	opts.path = flag.Arg(0)
	return opts, nil
}

func run(opts options) error {
	data, err := os.ReadFile(opts.path)
	if err != nil {
		return err
	}

	var tree *dom.Tree
	switch strings.ToLower(filepath.Ext(opts.path)) {
	case ".html", ".htm":
		tree, err = dom.ParseHTML(bytes.NewReader(data))
	default:
		tree, err = dom.ParseMarkdown(data)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", opts.path, err)
	}

	log := observability.Logger(observability.NopLogger{})
	if opts.verbose {
		zl, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer zl.Sync()
		log = observability.NewZapLogger(zl)
	}

	engine := render.NewEngine(render.WithLogger(log), render.WithFooter(filepath.Base(opts.path)))
	result, err := engine.Render(&render.Document{
		Tree:   tree,
		Title:  opts.title,
		Lang:   opts.lang,
		Marked: true,
	})
	if err != nil {
		return err
	}

	pageRefs := make(map[int]raw.ObjectRef, len(result.Pages))
	for _, page := range result.Pages {
		pageRefs[page.Number] = raw.ObjectRef{Num: page.Number}
		fmt.Printf("%% page %d\n%s\n", page.Number, page.Content)
	}

	built := result.BuildStructure(opts.startID, pageRefs, nil)
	if built.Empty() {
		fmt.Println("% no accessible content")
		return nil
	}
	if err := writer.WriteRecords(os.Stdout, built.Records); err != nil {
		return err
	}
	fmt.Printf("%% StructTreeRoot %s, Document %s\n", built.RootRef, built.DocumentRef)
	return nil
}

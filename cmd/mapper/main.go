package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/plan-systems/klog"

	"github.com/psuresearch/Mapper/chem"
	"github.com/psuresearch/Mapper/libchem"
	"github.com/psuresearch/Mapper/libchem/catalog"
	"github.com/psuresearch/Mapper/rxn"
)

func main() {

	flag.Set("logtostderr", "true")
	flag.Set("v", "2")

	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "2")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	dbPath := flag.String("db", "", "path to a core catalog db (omit to extract without caching)")
	outPath := flag.String("o", "", "write notation,core CSV here instead of stdout")
	readOnly := flag.Bool("readonly", false, "open the core catalog read-only")
	dump := flag.Bool("dump", false, "print every core stored in the catalog and exit")

	flag.Parse()

	in := io.Reader(os.Stdin)
	if pathname := flag.Arg(0); pathname != "" && pathname != "-" {
		f, err := os.Open(pathname)
		if err != nil {
			klog.Fatalf("%v", err)
		}
		defer f.Close()
		in = f
	}

	out := io.Writer(os.Stdout)
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			klog.Fatalf("%v", err)
		}
		defer f.Close()
		out = f
	}

	ctx := chem.NewCatalogContext()

	var cat chem.CoreCatalog
	if *dbPath != "" {
		var err error
		cat, err = catalog.OpenCatalog(ctx, chem.CatalogOpts{
			DbPathName: *dbPath,
			ReadOnly:   *readOnly,
		})
		if err != nil {
			klog.Fatalf("failed to open core catalog: %v", err)
		}
		klog.Infof("core catalog %q holds %d cores", *dbPath, cat.NumCores())
	}

	if *dump {
		if cat == nil {
			klog.Fatalf("-dump requires -db")
		}
		onHit := make(chan string, 4)
		go func() {
			cat.SelectAll(onHit)
			close(onHit)
		}()
		for core := range onHit {
			fmt.Fprintln(out, core)
		}
		cat.Close()
		ctx.Close()
		<-ctx.Done()
		klog.Flush()
		return
	}

	seen := libchem.NewNotationSet()
	defer seen.Close()

	count, err := rxn.StreamLines(in).
		Dedupe(seen).
		ExtractCores(cat).
		Print(out).
		PullAll()

	if cat != nil {
		cat.Close()
	}
	ctx.Close()
	<-ctx.Done()

	if err != nil {
		klog.Flush()
		klog.Fatalf("%v", err)
	}
	klog.Infof("extracted cores for %d reactions", count)
	klog.Flush()
}

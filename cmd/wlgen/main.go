// Command wlgen generates wlclient bindings from Wayland protocol XML.
//
//	wlgen [-package name] [-prefix wl_] [-runtime] [-o file] protocol.xml
//	wlgen -dump protocol.xml
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/bnema/wlclient/internal/wlgen"
)

func main() {
	var (
		output  = flag.String("o", "", "write bindings to `file` instead of stdout")
		pkg     = flag.String("package", "wlclient", "package `name` of the generated file")
		prefix  = flag.String("prefix", "wl_", "interface name `prefix` dropped from Go names")
		runtime = flag.Bool("runtime", false, "qualify runtime identifiers, for bindings outside the wlclient package")
		dump    = flag.Bool("dump", false, "print the parsed descriptors as YAML and exit")
		verbose = flag.Bool("v", false, "log progress")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: wlgen [flags] protocol.xml\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	path := flag.Arg(0)
	log := logrus.WithField("protocol", path)
	p, err := wlgen.ParseFile(path)
	if err != nil {
		log.WithError(err).Fatal("parse failed")
	}
	log.WithField("interfaces", len(p.Interfaces)).Debug("parsed")

	if *dump {
		desc, err := p.Descriptors()
		if err != nil {
			log.WithError(err).Fatal("invalid protocol")
		}
		if err := wlgen.Dump(os.Stdout, desc); err != nil {
			log.WithError(err).Fatal("dump failed")
		}
		return
	}

	src, err := wlgen.Source(p, wlgen.Options{
		Package: *pkg,
		Runtime: *runtime,
		Prefix:  *prefix,
		Source:  path,
	})
	if err != nil {
		log.WithError(err).Fatal("generate failed")
	}
	if *output == "" {
		_, _ = os.Stdout.Write(src)
		return
	}
	if old, err := os.ReadFile(*output); err == nil && bytes.Equal(old, src) {
		log.WithField("output", *output).Debug("unchanged")
		return
	}
	if err := os.WriteFile(*output, src, 0o644); err != nil {
		log.WithError(err).Fatal("write failed")
	}
	log.WithField("output", *output).Debug("written")
}

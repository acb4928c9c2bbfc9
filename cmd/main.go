//go:build llvm

// Command main computes liveness for the functions of LLVM IR modules.
package main

import (
	"flag"
	"os"

	"github.com/mahbod-afarin/liveness/config"
	"github.com/mahbod-afarin/liveness/ir"
	"github.com/mahbod-afarin/liveness/llvmir"
	"github.com/mahbod-afarin/liveness/pass"
	"github.com/mahbod-afarin/liveness/report"
	log "github.com/sirupsen/logrus"
)

func main() {
	opts := &config.Options{}
	opts.Register(flag.CommandLine)
	flag.Parse()
	opts.Args = flag.Args()
	if opts.Help {
		flag.PrintDefaults()
		return
	}
	if opts.Debug {
		log.SetLevel(log.DebugLevel)
	}
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	if err := opts.Validate(); err != nil {
		log.Fatalln(err)
	}

	var units []*ir.Unit
	for _, path := range opts.Args {
		loaded, err := llvmir.Load(path)
		if err != nil {
			log.Fatalln(err)
		}
		log.Infof("Loaded %d function(s) from %s", len(loaded), path)
		units = append(units, loaded...)
	}
	if filter, _ := opts.FuncFilter(); filter != nil {
		kept := units[:0]
		for _, u := range units {
			if filter.MatchString(u.Name) {
				kept = append(kept, u)
			}
		}
		units = kept
	}

	policy, _ := opts.Policy()
	results, err := pass.NewVisitor(opts.Threads, pass.WithPolicy(policy)).VisitUnits(units)
	if err != nil {
		log.Fatalln(err)
	}
	if opts.Output == "" {
		err = report.Write(os.Stdout, opts.Format, results)
	} else {
		err = report.WriteFile(opts.Output, opts.Format, results)
	}
	if err != nil {
		log.Fatalln(err)
	}
}

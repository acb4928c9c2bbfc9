package main

import (
	"os"

	"github.com/mahbod-afarin/liveness/analyzer"
	"github.com/mahbod-afarin/liveness/config"
	"github.com/mahbod-afarin/liveness/report"
	log "github.com/sirupsen/logrus"
)

func main() {
	opts, err := config.Parse(os.Args[0], os.Args[1:])
	if err != nil {
		log.Fatalln(err)
	}
	if opts.Help {
		log.Println("Usage: liveness [options] packages...")
		config.PrintDefaults(os.Stderr)
		return
	}
	if opts.Debug {
		log.SetLevel(log.DebugLevel)
	}
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})

	policy, _ := opts.Policy()
	filter, _ := opts.FuncFilter()
	analyzer := analyzer.NewAnalyzerConfig(opts.Args, config.ExcludedPkgs)
	analyzer.Tests = opts.Tests
	analyzer.Threads = opts.Threads
	analyzer.Policy = policy
	analyzer.Functions = filter
	analyzer.Reachable = opts.Reachable
	results, err := analyzer.Run()
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

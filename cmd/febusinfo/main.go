// Package main provides a command-line utility to inspect Febus DAS files.
// It performs a header-only read and prints the normalized acquisition
// metadata without touching the bulk data.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/scigolib/febus"
	"go.uber.org/zap"
)

func main() {
	version := flag.String("version", "", "Force a schema version instead of reading the file's Version attribute")
	verbose := flag.Bool("v", false, "Print extraction warnings")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: febusinfo [flags] <file.h5>")
		fmt.Println("Flags:")
		flag.PrintDefaults()
		return
	}

	opts := []febus.Option{febus.WithHeaderOnly()}
	if *version != "" {
		opts = append(opts, febus.WithVersion(*version))
	}
	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("Failed to build logger: %v", err)
		}
		defer func() { _ = logger.Sync() }()
		opts = append(opts, febus.WithLogger(logger))
	}

	data, err := febus.Read(args[0], opts...)
	if err != nil {
		log.Fatalf("Failed to read header: %v", err)
	}

	m := data.Meta
	fmt.Printf("File version:     %s\n", m.Version)
	fmt.Printf("Data type:        %s\n", m.DataType)
	fmt.Printf("Channels:         %d\n", m.NumChannels())
	fmt.Printf("Sampling res:     %g m\n", m.SamplingRes)
	fmt.Printf("Sampling rate:    %g Hz\n", m.SamplingRate)
	fmt.Printf("Pulse rate:       %g Hz\n", m.PulseRateFreq)
	fmt.Printf("Block rate:       %g Hz\n", m.BlockRate)
	fmt.Printf("Block length:     %g s\n", m.BlockLength)
	fmt.Printf("Block interval:   %g s\n", m.BlockInterval)
	fmt.Printf("Block overlap:    %g %%\n", m.BlockOverlap)
	fmt.Printf("Samples/block:    %d\n", m.SamplesPerBlock)
	fmt.Printf("Derivation time:  %g s\n", m.DerivationTime)
	fmt.Printf("Origin:           %g m, %g ms\n", m.Origin[0], m.Origin[1])
	fmt.Printf("Spacing:          %g m, %g ms\n", m.Spacing[0], m.Spacing[1])
	if len(data.Distances) > 0 {
		fmt.Printf("Distance range:   %g m to %g m\n",
			data.Distances[0], data.Distances[len(data.Distances)-1])
	}
}

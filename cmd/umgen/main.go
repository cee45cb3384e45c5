// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"os"

	"github.com/ezrec/um/suite"
	"github.com/ezrec/um/translate"
)

func main() {
	var script string
	var dir string
	var compress bool
	var check bool
	var verbose bool

	flag.StringVar(&script, "s", "", ".star suite to use, instead of the built-in suite")
	flag.StringVar(&dir, "d", ".", "Directory to write tests into")
	flag.BoolVar(&compress, "z", false, "Write zstd compressed program images")
	flag.BoolVar(&check, "c", false, "Run each test, and verify its output before writing")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	st := &suite.Suite{Verbose: verbose}

	var err error
	if len(script) == 0 {
		script = suite.DEFAULT_SCRIPT
		err = st.ParseDefault()
	} else {
		var inf *os.File
		inf, err = os.Open(script)
		if err != nil {
			log.Fatalf("%v: %v", script, err)
		}
		err = st.Parse(script, inf)
		inf.Close()
	}
	if err != nil {
		log.Fatalf("%v: %v", script, err)
	}

	tests, err := st.Select(flag.Args()...)
	if err != nil {
		// Unknown names are reported, and the known ones still written.
		log.Print(err)
	}

	failed := err != nil
	for _, test := range tests {
		translate.To(os.Stdout, "***** Writing test '%s'.\n", test.Name)

		if check {
			cerr := test.Check()
			if cerr != nil {
				log.Print(cerr)
				failed = true
			}
		}

		if compress {
			err = test.WriteCompressed(dir)
		} else {
			err = test.Write(dir)
		}
		if err != nil {
			log.Fatal(err)
		}
	}

	if failed {
		os.Exit(1)
	}
}

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"flag"
	"log"
	"os"

	"github.com/ezrec/um/emulator"
)

func main() {
	var input string
	var output string
	var verbose bool

	flag.StringVar(&input, "i", "-", "Tape input")
	flag.StringVar(&output, "o", "-", "Tape output")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("Usage: %v [-v] [-i input] [-o output] program.um", os.Args[0])
	}

	program := flag.Arg(0)

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	inf, err := os.Open(program)
	if err != nil {
		log.Fatalf("%v: %v", program, err)
	}
	err = emu.Rom.Unmarshal(bufio.NewReader(inf))
	inf.Close()
	if err != nil {
		log.Fatalf("%v: %v", program, err)
	}

	if input == "-" {
		emu.Tape.Input = bufio.NewReader(os.Stdin)
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		emu.Tape.Input = bufio.NewReader(inf)
	}

	var ouf *os.File
	if output == "-" {
		ouf = os.Stdout
	} else {
		ouf, err = os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
	}
	emu.Tape.Output = bufio.NewWriter(ouf)

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", program, err)
	}

	err = emu.Run()
	if err != nil {
		emu.Close()
		log.Fatal(err)
	}

	err = emu.Close()
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}
}

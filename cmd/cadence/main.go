// cadence runs a neural network ensemble over a matrix of input frames.
//
// Usage:
//
//	cadence [flags] model.nn [model.nn ...]
//
// The input is a CSV matrix of float values, one row per frame, read from
// -input (or stdin). The averaged prediction is printed to stdout.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"gorgonia.org/tensor"

	"github.com/gorgonia/cadence"
	"github.com/gorgonia/cadence/encoding/actplot"
	"github.com/gorgonia/cadence/encoding/dot"
	_ "github.com/gorgonia/cadence/layers" // register the layer types for model loading
)

var (
	input   = flag.String("input", "-", "CSV file with one row per frame, or - for stdin")
	workers = flag.Int("workers", 0, "max networks evaluated in parallel (0 = one per CPU)")
	each    = flag.Bool("each", false, "print every network's prediction instead of the average")
	dotFile = flag.String("dot", "", "write the first network's topology in dot notation to this file")
	gifFile = flag.String("gif", "", "write the per-network activations as an animated GIF to this file")
)

func main() {
	flag.Parse()
	paths := flag.Args()
	if len(paths) == 0 {
		log.Fatal("at least one model file is required")
	}

	ensemble, err := cadence.LoadEnsemble(paths, cadence.WithWorkers(*workers))
	if err != nil {
		log.Fatalf("%+v", err)
	}

	data, err := readMatrix(*input)
	if err != nil {
		log.Fatalf("%+v", err)
	}

	predictions, err := ensemble.ProcessEach(data, true)
	if err != nil {
		log.Fatalf("%+v", err)
	}

	if *each {
		for i, p := range predictions {
			fmt.Printf("%s:\n", paths[i])
			printPrediction(p)
		}
	} else {
		combined, err := cadence.AveragePredictions(predictions)
		if err != nil {
			log.Fatalf("%+v", err)
		}
		printPrediction(combined)
	}

	if *dotFile != "" {
		s, err := dot.Marshal(ensemble.Networks()[0])
		if err != nil {
			log.Fatalf("%+v", err)
		}
		if err := os.WriteFile(*dotFile, []byte(s), 0644); err != nil {
			log.Fatalf("write %s: %v", *dotFile, err)
		}
	}

	if *gifFile != "" {
		if err := writeGif(*gifFile, paths, predictions); err != nil {
			log.Fatalf("%+v", err)
		}
	}
}

func printPrediction(p cadence.Prediction) {
	if p.IsMultiTask() {
		for i, t := range p.Tasks {
			fmt.Printf("task %d:\n%v", i, t)
		}
		return
	}
	fmt.Printf("%v", p.Output)
}

func writeGif(filename string, captions []string, predictions []cadence.Prediction) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := actplot.NewEncoder(f)
	for i, p := range predictions {
		if err := enc.Encode(captions[i], p); err != nil {
			return err
		}
	}
	return enc.Flush()
}

// readMatrix parses a CSV of floats into a (frames, features) matrix.
func readMatrix(name string) (*tensor.Dense, error) {
	var r io.Reader = os.Stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no input frames")
	}

	cols := len(records[0])
	backing := make([]float32, 0, len(records)*cols)
	for _, rec := range records {
		for _, field := range rec {
			v, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return nil, err
			}
			backing = append(backing, float32(v))
		}
	}
	return tensor.New(tensor.WithShape(len(records), cols), tensor.WithBacking(backing)), nil
}

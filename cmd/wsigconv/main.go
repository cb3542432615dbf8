// This tool walks a directory tree and converts every WSIG recording it finds
// into an uncalibrated wav (or aiff) file stored in the output directory.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"

	"github.com/cwbudde/wsig"
	"github.com/go-audio/audio"
)

const defaultPattern = `.+\.(int|naf|oaf|pr1|pr2)$`

var (
	errMissingDirs = errors.New("you must set both -i and -o")
	errConversion  = errors.New("some files failed to convert")
)

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if !errors.Is(err, flag.ErrHelp) {
		log.Println(err)
	}

	os.Exit(1)
}

func run(args []string, out io.Writer) error {
	flagSet := flag.NewFlagSet("wsigconv", flag.ContinueOnError)
	flagSet.SetOutput(out)

	input := flagSet.String("i", "", "input directory containing files to be converted")
	output := flagSet.String("o", "", "output directory for files after conversion")
	format := flagSet.String("format", "wav", "output container, wav or aiff")
	pattern := flagSet.String("pattern", defaultPattern, "regexp matched against file names")
	verbose := flagSet.Bool("v", false, "log every converted file")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if *input == "" || *output == "" {
		flagSet.Usage()
		return errMissingDirs
	}

	container, err := wsig.ParseContainer(*format)
	if err != nil {
		return err
	}

	re, err := regexp.Compile(*pattern)
	if err != nil {
		return fmt.Errorf("bad -pattern: %w", err)
	}

	inputs, err := collectInputs(*input, re)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*output, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", *output, err)
	}

	failed := 0

	for _, in := range inputs {
		outPath := filepath.Join(*output, filepath.Base(in)+container.Ext())

		if *verbose {
			log.Printf("Start conversion for %s...", in)
		}

		if err := convertFile(in, outPath, container); err != nil {
			log.Printf("Something went wrong converting %s - %v", in, err)

			failed++

			continue
		}

		fmt.Fprintf(out, "%s -> %s\n", in, outPath)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errConversion, failed, len(inputs))
	}

	return nil
}

func collectInputs(root string, re *regexp.Regexp) ([]string, error) {
	var inputs []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && re.MatchString(d.Name()) {
			inputs = append(inputs, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return inputs, nil
}

func convertFile(in, out string, c wsig.Container) error {
	r, err := wsig.Open(in)
	if err != nil {
		return err
	}
	defer r.Close()

	raw, err := r.ReadFrames(-1)
	if err != nil {
		return err
	}

	if r.SampleWidth() != 2 {
		return fmt.Errorf("%w: can't export %d byte samples", wsig.ErrUnsupported, r.SampleWidth())
	}

	samples, err := wsig.Int16Samples(raw)
	if err != nil {
		return err
	}

	format := &audio.Format{NumChannels: r.Channels(), SampleRate: r.FrameRate()}

	return wsig.WriteAudioFile(out, c, format, samples)
}

package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/zipcd"
	"github.com/nguyengg/zipcd/internal"
	"golang.org/x/time/rate"
)

type Command struct {
	Dir  flags.Filename `short:"d" long:"dir" description:"extract into this directory instead of one named after the archive"`
	Args struct {
		Files []flags.Filename `positional-arg-name:"file" description:"local .zip files or s3://bucket/key URIs to be extracted" required:"yes"`
	} `positional-args:"yes"`
}

func (c *Command) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	// a failing archive should not prevent the remaining ones from being extracted.
	n := len(c.Args.Files)
	failures := 0
	for i, file := range c.Args.Files {
		output, err := c.extract(ctx, string(file))
		if err != nil {
			log.Printf(`%d/%d: extract "%s" error: %v`, i+1, n, file, err)
			failures++
			continue
		}

		log.Printf(`%d/%d: successfully extracted "%s" to "%s"`, i+1, n, file, output)
	}

	if failures != 0 {
		return fmt.Errorf("failed to extract %d/%d files", failures, n)
	}
	return nil
}

// extract parses the named archive and writes its entries out, returning the output directory.
func (c *Command) extract(ctx context.Context, name string) (string, error) {
	a, err := internal.LoadArchive(ctx, name)
	if err != nil {
		return "", err
	}

	output := string(c.Dir)
	if output == "" {
		stem, _ := internal.StemAndExt(name)
		if output, err = createOutputDir(stem); err != nil {
			return "", err
		}
	} else if err = os.MkdirAll(output, 0755); err != nil {
		return "", err
	}

	var total int64
	for _, e := range a.Entries {
		total += int64(e.UncompressedSize)
	}

	bar := internal.ExtractBytes(total, "extracting")
	sometimes := rate.Sometimes{Interval: 5 * time.Second}

	n := len(a.Entries)
	for i := range a.Entries {
		e := &a.Entries[i]
		if err = c.write(output, e, bar); err != nil {
			return "", fmt.Errorf(`extract entry "%s" error: %w`, e.Name, err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			sometimes.Do(func() {
				log.Printf(`[%d/%d] done extracting "%s"`, i+1, n, e.Name)
			})
		}
	}

	_ = bar.Finish()
	return output, nil
}

func (c *Command) write(output string, e *zipcd.Entry, bar io.Writer) error {
	name := string(e.Name)
	if !filepath.IsLocal(filepath.FromSlash(strings.TrimSuffix(name, "/"))) {
		return fmt.Errorf("refusing to extract non-local path")
	}

	path := filepath.Join(output, filepath.FromSlash(name))
	if strings.HasSuffix(name, "/") {
		return os.MkdirAll(path, 0755)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	w, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	_, err = e.WriteTo(io.MultiWriter(w, bar))
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	return err
}

// createOutputDir creates a new directory named after stem, appending -1, -2, ... on conflicts.
func createOutputDir(stem string) (string, error) {
	output := stem
	for i := 0; ; {
		switch err := os.Mkdir(output, 0755); {
		case err == nil:
			return output, nil
		case errors.Is(err, os.ErrExist):
			i++
			output = stem + "-" + strconv.Itoa(i)
		default:
			return "", err
		}
	}
}

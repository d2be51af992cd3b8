package list

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/zipcd"
	"github.com/nguyengg/zipcd/internal"
)

type Command struct {
	Comment bool `short:"c" long:"comment" description:"also print the archive comment if there is one"`
	Args    struct {
		Files []flags.Filename `positional-arg-name:"file" description:"local .zip files or s3://bucket/key URIs to be listed" required:"yes"`
	} `positional-args:"yes"`
}

func (c *Command) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	for _, file := range c.Args.Files {
		if err := c.list(ctx, string(file)); err != nil {
			return fmt.Errorf(`list "%s" error: %w`, file, err)
		}
	}

	return nil
}

func (c *Command) list(ctx context.Context, name string) error {
	a, err := internal.LoadArchive(ctx, name)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d entries, central directory at %#x\n", name, len(a.Entries), a.EOCD.CDOffset)
	for _, e := range a.Entries {
		fmt.Printf("  %-8s %10s %10s  %s\n",
			methodString(e.Method),
			humanize.IBytes(uint64(e.CompressedSize)),
			humanize.IBytes(uint64(e.UncompressedSize)),
			e.Name)
	}

	if c.Comment && len(a.EOCD.Comment) > 0 {
		fmt.Printf("comment: %s\n", a.EOCD.Comment)
	}

	return nil
}

func methodString(m uint16) string {
	switch m {
	case zipcd.MethodStored:
		return "stored"
	case zipcd.MethodDeflated:
		return "deflated"
	default:
		return fmt.Sprintf("%#x", m)
	}
}

// Package replay feeds messages from a file (or stdin) line by line, for
// dry runs and tests.
package replay

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/logger"
)

type Source struct {
	path string
}

// New reads from path, or stdin when path is empty or "-".
func New(path string) *Source {
	return &Source{path: path}
}

func (s *Source) Run(ctx context.Context, handle func(ctx context.Context, text string)) error {
	var in io.Reader = os.Stdin
	if s.path != "" && s.path != "-" {
		f, err := os.Open(s.path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		handle(ctx, line)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	logger.Info(ctx, "Replay source drained", "path", s.path)
	return nil
}

func (s *Source) Stop(ctx context.Context) {}

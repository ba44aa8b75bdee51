package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// PromptConfirmer pergunta no terminal antes de ações destrutivas.
// Com assumeYes a pergunta não é feita.
type PromptConfirmer struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func NewPromptConfirmer(in io.Reader, out io.Writer, assumeYes bool) *PromptConfirmer {
	return &PromptConfirmer{
		in:        bufio.NewReader(in),
		out:       out,
		assumeYes: assumeYes,
	}
}

func (c *PromptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if c.assumeYes {
		return true, nil
	}

	if _, err := fmt.Fprintf(c.out, "%s [s/N]: ", prompt); err != nil {
		return false, err
	}

	type answer struct {
		line string
		err  error
	}

	answers := make(chan answer, 1)

	go func() {
		line, err := c.in.ReadString('\n')
		answers <- answer{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a := <-answers:
		if a.err != nil && a.err != io.EOF {
			return false, a.err
		}

		return isAffirmative(a.line), nil
	}
}

func isAffirmative(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true
	default:
		return false
	}
}

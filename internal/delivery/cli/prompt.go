// Package cli is the interactive front end: one question in, one answer out.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/skuprice/backend/internal/infrastructure/logging"
	"github.com/skuprice/backend/internal/usecase"
)

const prompt = "Pregunta: "

// Asker answers free-text price questions
type Asker interface {
	Ask(ctx context.Context, raw string) (*usecase.Answer, error)
}

// Run prompts for a single question on in and prints the answer to out.
// Lookup errors are printed rather than returned; only I/O failures on out
// are reported to the caller.
func Run(ctx context.Context, in io.Reader, out io.Writer, asker Asker) error {
	logger := logging.Component("cli")

	if _, err := fmt.Fprint(out, prompt); err != nil {
		return err
	}

	question, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		logger.Error().Err(err).Msg("reading question")
		_, werr := fmt.Fprintln(out, usecase.UserMessage(err))
		return werr
	}
	question = strings.TrimSpace(question)

	answer, err := asker.Ask(ctx, question)
	if err != nil {
		logger.Debug().Err(err).Str("question", question).Msg("question failed")
		_, werr := fmt.Fprintln(out, usecase.UserMessage(err))
		return werr
	}

	_, err = fmt.Fprintln(out, answer.Text)
	return err
}

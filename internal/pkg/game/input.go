package game

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

// MaxLineLength caps a single input line. Longer lines are drained and
// reported as tooLong so the round can re-prompt.
const MaxLineLength = 1024

type inputLine struct {
	text    string
	tooLong bool
	err     error
}

// readLines feeds lines from in until EOF, a read error or ctx is done. The
// channel is closed on EOF.
func readLines(ctx context.Context, in io.Reader) <-chan inputLine {
	lines := make(chan inputLine)

	go func() {
		defer close(lines)

		r := bufio.NewReaderSize(in, MaxLineLength)

		for {
			line, err := readLine(r)
			if errors.Is(err, io.EOF) {
				return
			}

			if err != nil {
				line = inputLine{err: fmt.Errorf("failed to read input: %w", err)}
			}

			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}

			if err != nil {
				return
			}
		}
	}()

	return lines
}

func readLine(r *bufio.Reader) (inputLine, error) {
	var (
		line inputLine
		buf  []byte
	)

	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) && (len(buf) > 0 || line.tooLong) {
				line.text = string(buf)

				return line, nil
			}

			//nolint:wrapcheck
			return line, err
		}

		if !line.tooLong {
			if len(buf)+len(chunk) > MaxLineLength {
				line.tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}

		if !isPrefix {
			line.text = string(buf)

			return line, nil
		}
	}
}

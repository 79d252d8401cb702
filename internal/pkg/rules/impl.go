package rules

import (
	"fmt"
	"io"
	"strings"

	"github.com/vreid/fairplay/internal/pkg/moveset"
	"github.com/vreid/fairplay/internal/pkg/outcome"
	"golang.org/x/text/width"
)

const Corner = "v PC/User >"

type Cell string

const (
	CellDraw Cell = "draw"
	CellWin  Cell = "win"
	CellLose Cell = "lose"
)

func (c Cell) Label() string {
	switch c {
	case CellDraw:
		return "Draw"
	case CellWin:
		return "Win"
	case CellLose:
		return "Lose"
	default:
		return string(c)
	}
}

// Table holds the result for the user (column) against every computer move (row).
type Table struct {
	Moves []string `json:"moves"`
	Cells [][]Cell `json:"cells"`
}

func Build(moves moveset.MoveSet) Table {
	size := moves.Len()

	table := Table{
		Moves: moves.Labels(),
		Cells: make([][]Cell, size),
	}

	for pc := range size {
		row := make([]Cell, size)

		for user := range size {
			switch outcome.Decide(user, pc, size) {
			case outcome.FirstWins:
				row[user] = CellWin
			case outcome.SecondWins:
				row[user] = CellLose
			case outcome.Tie:
				row[user] = CellDraw
			}
		}

		table.Cells[pc] = row
	}

	return table
}

func Render(w io.Writer, table Table) error {
	widths := make([]int, len(table.Moves)+1)
	widths[0] = displayWidth(Corner)

	for i, move := range table.Moves {
		widths[0] = max(widths[0], displayWidth(move))
		widths[i+1] = displayWidth(move)

		for _, row := range table.Cells {
			widths[i+1] = max(widths[i+1], displayWidth(row[i].Label()))
		}
	}

	var sb strings.Builder

	border := func() {
		for _, cw := range widths {
			sb.WriteString("+")
			sb.WriteString(strings.Repeat("-", cw+2))
		}

		sb.WriteString("+\n")
	}

	line := func(cells []string) {
		for i, c := range cells {
			sb.WriteString("| ")
			sb.WriteString(c)
			sb.WriteString(strings.Repeat(" ", widths[i]-displayWidth(c)+1))
		}

		sb.WriteString("|\n")
	}

	border()
	line(append([]string{Corner}, table.Moves...))
	border()

	for pc, row := range table.Cells {
		cells := []string{table.Moves[pc]}
		for _, c := range row {
			cells = append(cells, c.Label())
		}

		line(cells)
	}

	border()

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("failed to write rule table: %w", err)
	}

	return nil
}

func displayWidth(s string) int {
	n := 0

	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		case width.Neutral, width.EastAsianAmbiguous, width.EastAsianNarrow, width.EastAsianHalfwidth:
			n++
		}
	}

	return n
}

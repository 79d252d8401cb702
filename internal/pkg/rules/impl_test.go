package rules_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vreid/fairplay/internal/pkg/moveset"
	"github.com/vreid/fairplay/internal/pkg/rules"
)

func TestBuildClassic(t *testing.T) {
	t.Parallel()

	moves, err := moveset.New([]string{"rock", "paper", "scissors"})
	require.NoError(t, err)

	table := rules.Build(moves)

	assert.Equal(t, []string{"rock", "paper", "scissors"}, table.Moves)
	assert.Equal(t, [][]rules.Cell{
		{rules.CellDraw, rules.CellWin, rules.CellLose},
		{rules.CellLose, rules.CellDraw, rules.CellWin},
		{rules.CellWin, rules.CellLose, rules.CellDraw},
	}, table.Cells)
}

func TestBuildBalanced(t *testing.T) {
	t.Parallel()

	moves, err := moveset.New([]string{"a", "b", "c", "d", "e", "f", "g"})
	require.NoError(t, err)

	table := rules.Build(moves)

	for _, row := range table.Cells {
		counts := map[rules.Cell]int{}
		for _, c := range row {
			counts[c]++
		}

		assert.Equal(t, 1, counts[rules.CellDraw])
		assert.Equal(t, 3, counts[rules.CellWin])
		assert.Equal(t, 3, counts[rules.CellLose])
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	moves, err := moveset.New([]string{"rock", "paper", "scissors"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, rules.Render(&buf, rules.Build(moves)))

	expected := strings.Join([]string{
		"+-------------+------+-------+----------+",
		"| v PC/User > | rock | paper | scissors |",
		"+-------------+------+-------+----------+",
		"| rock        | Draw | Win   | Lose     |",
		"| paper       | Lose | Draw  | Win      |",
		"| scissors    | Win  | Lose  | Draw     |",
		"+-------------+------+-------+----------+",
		"",
	}, "\n")

	assert.Equal(t, expected, buf.String())
}

func TestRenderWideLabels(t *testing.T) {
	t.Parallel()

	moves, err := moveset.New([]string{"グー", "チョキ", "パー"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, rules.Render(&buf, rules.Build(moves)))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 7)
	assert.Equal(t, "| v PC/User > | グー | チョキ | パー |", lines[1])
}

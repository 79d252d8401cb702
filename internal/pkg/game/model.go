package game

type SelectionKind int

const (
	SelectionMove SelectionKind = iota
	SelectionExit
	SelectionHelp
)

// Selection is one parsed line of player input. Index is zero based and only
// meaningful for SelectionMove.
type Selection struct {
	Kind  SelectionKind
	Index int
}

const (
	ExitInput = "0"
	HelpInput = "?"

	MessageInvalidInput = "Invalid input. Please try again."
	MessageInvalidMove  = "Invalid move. Please try again."
	MessageTie          = "It's a tie!"
	MessageWin          = "You win!"
	MessageLose         = "You lose!"
)

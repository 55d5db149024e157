package boxer

import "fmt"

// Result is the outcome recorded against one boxer after a fight.
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
)

// Valid reports whether r is ResultWin or ResultLoss.
func (r Result) Valid() bool {
	return r == ResultWin || r == ResultLoss
}

// ParseResult converts s into a Result.
//
// Postcondition: Returns a valid Result or an error wrapping ErrInvalidArgument.
func ParseResult(s string) (Result, error) {
	r := Result(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: result must be 'win' or 'loss', got %q", ErrInvalidArgument, s)
	}
	return r, nil
}

package nextaction

import (
	"fmt"

	"github.com/probiller/purchase-gateway/internal/domain/purchase"
)

// CreateForComplete maps the completed session onto the final instruction.
// Only a processed session completes; anything else is an ordering error.
func CreateForComplete(state purchase.State) (Action, error) {
	if _, ok := state.(purchase.Processed); ok {
		return FinishProcess{}, nil
	}
	return nil, fmt.Errorf("complete next action for state %q: %w", state.Name(), ErrInvalidState)
}

package cascade

import (
	"errors"
	"fmt"

	"github.com/probiller/purchase-gateway/internal/domain/biller"
)

var (
	// ErrInvalidNextBiller means the cascade is exhausted: no further
	// attempt is possible for this purchase.
	ErrInvalidNextBiller = errors.New("no next biller available")
	// ErrNoBillersInCascade means a filter emptied the cascade.
	ErrNoBillersInCascade = errors.New("no billers left in cascade")
)

// Cascade owns the ordered fallback sequence of billers for one purchase.
// currentBillerPosition always indexes a real entry of the original
// configured order; only an explicit advance inside NextBiller moves it.
type Cascade struct {
	billers               *biller.Collection
	currentBillerName     string
	currentBillerSubmit   int
	currentBillerPosition int
	removedBillersFor3DS  []string
}

// New starts a cascade at the first biller of the configured order.
func New(billers *biller.Collection) (*Cascade, error) {
	if billers == nil || billers.IsEmpty() {
		return nil, ErrNoBillersInCascade
	}
	return &Cascade{
		billers:           billers,
		currentBillerName: billers.At(0).Name(),
	}, nil
}

// Restore rebuilds a cascade from persisted session fields.
func Restore(billers *biller.Collection, currentBiller string, currentBillerSubmit, currentBillerPosition int, removedFor3DS []string) (*Cascade, error) {
	if billers == nil || billers.IsEmpty() {
		return nil, ErrNoBillersInCascade
	}
	if currentBillerPosition < 0 || currentBillerPosition >= billers.Count() {
		return nil, fmt.Errorf("current biller position %d out of range: %w", currentBillerPosition, ErrInvalidNextBiller)
	}
	if currentBiller != "" && !billers.Contains(currentBiller) {
		return nil, fmt.Errorf("current biller %q: %w", currentBiller, biller.ErrUnknownBillerName)
	}
	if currentBiller == "" {
		currentBiller = billers.At(currentBillerPosition).Name()
	}
	return &Cascade{
		billers:               billers,
		currentBillerName:     currentBiller,
		currentBillerSubmit:   currentBillerSubmit,
		currentBillerPosition: currentBillerPosition,
		removedBillersFor3DS:  removedFor3DS,
	}, nil
}

func (c *Cascade) Billers() *biller.Collection { return c.billers }

func (c *Cascade) CurrentBiller() biller.Biller {
	if b := c.billers.Get(c.currentBillerName); b != nil {
		return b
	}
	return c.billers.At(c.currentBillerPosition)
}

func (c *Cascade) CurrentBillerName() string      { return c.currentBillerName }
func (c *Cascade) CurrentBillerSubmit() int       { return c.currentBillerSubmit }
func (c *Cascade) CurrentBillerPosition() int     { return c.currentBillerPosition }
func (c *Cascade) RemovedBillersFor3DS() []string { return c.removedBillersFor3DS }

// NextBiller selects the biller for the next attempt. While the current
// biller has submits left it is returned unchanged, so transient declines
// retry in place without moving the cascade pointer. Once its submits are
// spent the pointer advances one position in the original order. An advance
// past the last biller fails with ErrInvalidNextBiller.
func (c *Cascade) NextBiller() (biller.Biller, error) {
	current := c.CurrentBiller()
	if current == nil {
		return nil, ErrInvalidNextBiller
	}
	if c.currentBillerSubmit < current.MaxSubmits() {
		return current, nil
	}
	next := c.billers.At(c.currentBillerPosition + 1)
	if next == nil {
		return nil, ErrInvalidNextBiller
	}
	c.currentBillerPosition++
	c.currentBillerName = next.Name()
	c.currentBillerSubmit = 0
	return next, nil
}

// IsTheNextBillerThirdParty performs the NextBiller lookup without mutating
// cascade state; false when no next biller exists.
func (c *Cascade) IsTheNextBillerThirdParty() bool {
	current := c.CurrentBiller()
	if current == nil {
		return false
	}
	if c.currentBillerSubmit < current.MaxSubmits() {
		return current.IsThirdParty()
	}
	next := c.billers.At(c.currentBillerPosition + 1)
	if next == nil {
		return false
	}
	return next.IsThirdParty()
}

// IncrementCurrentBillerSubmit records one attempt against the current biller.
func (c *Cascade) IncrementCurrentBillerSubmit() { c.currentBillerSubmit++ }

// RemoveNonThreeDSBillers drops billers without 3DS support, recording the
// removed names. It is a no-op once a submit was made against the current
// biller: the cascade is never reshaped mid-attempt-sequence. Emptying the
// cascade fails with ErrNoBillersInCascade.
func (c *Cascade) RemoveNonThreeDSBillers() error {
	if c.currentBillerSubmit > 0 {
		return nil
	}
	filtered := c.billers.Filter(func(b biller.Biller) bool {
		if !b.IsThreeDSupported() {
			c.removedBillersFor3DS = append(c.removedBillersFor3DS, b.Name())
			return false
		}
		return true
	})
	if filtered.IsEmpty() {
		return ErrNoBillersInCascade
	}
	c.rebase(filtered)
	return nil
}

// RemoveEpochBiller drops the Epoch biller unconditionally. Used on paths
// where the purchase is not NSF-eligible.
func (c *Cascade) RemoveEpochBiller() error {
	filtered := c.billers.Filter(func(b biller.Biller) bool {
		return b.Name() != biller.EpochName
	})
	if filtered.IsEmpty() {
		return ErrNoBillersInCascade
	}
	c.rebase(filtered)
	return nil
}

// rebase swaps in a filtered collection, re-anchoring the pointer on the
// current biller when it survived the filter and on the head otherwise.
func (c *Cascade) rebase(filtered *biller.Collection) {
	c.billers = filtered
	for pos, name := range filtered.Names() {
		if name == c.currentBillerName {
			c.currentBillerPosition = pos
			return
		}
	}
	c.currentBillerPosition = 0
	c.currentBillerName = filtered.At(0).Name()
	c.currentBillerSubmit = 0
}

package undo

// Counter is a change counter that satisfies Editor. Embed it to get the
// increment/decrement half of the contract.
type Counter struct {
	changes int
}

// IncrementChange records one applied action.
func (c *Counter) IncrementChange() { c.changes++ }

// DecrementChange records one undone action.
func (c *Counter) DecrementChange() { c.changes-- }

// Changes returns the net number of applied actions since the last reset.
func (c *Counter) Changes() int { return c.changes }

// ResetChanges sets the counter back to zero, e.g. after a save.
func (c *Counter) ResetChanges() { c.changes = 0 }

// Discount subtracts n changes that are no longer pending, e.g. the ones a
// finished save wrote out while newer edits kept counting.
func (c *Counter) Discount(n int) { c.changes -= n }

package keeper

import (
	"context"
)

// EndBlocker is a hook that is called at the end of every block.
func (k *Keeper) EndBlocker(ctx context.Context) error {
	return k.processCrystallizations(ctx)
}

package queue

import (
	"context"
	"fmt"

	"cosmossdk.io/collections"

	"github.com/basketlabs/fund/types"
)

// CrystallizationQueue schedules funds for fee crystallization passes in the
// end blocker. Entries are keyed by (timestamp, fund id) so iteration visits
// them in time order.
type CrystallizationQueue struct {
	// KeySet holds the scheduled (timestamp, fund id) entries.
	KeySet collections.KeySet[collections.Pair[int64, uint64]]
}

// NewCrystallizationQueue creates a new CrystallizationQueue.
func NewCrystallizationQueue(builder *collections.SchemaBuilder) *CrystallizationQueue {
	return &CrystallizationQueue{
		KeySet: collections.NewKeySet(
			builder,
			types.CrystallizationQueueKeyPrefix,
			types.CrystallizationQueueName,
			collections.PairKeyCodec(collections.Int64Key, collections.Uint64Key),
		),
	}
}

// Enqueue schedules a crystallization pass for the fund at the given unix
// time. Enqueueing the same (time, fund) pair twice is a no-op.
func (q *CrystallizationQueue) Enqueue(ctx context.Context, at int64, fundID uint64) error {
	if at < 0 {
		return fmt.Errorf("crystallization time cannot be negative")
	}
	return q.KeySet.Set(ctx, collections.Join(at, fundID))
}

// Dequeue removes the fund's schedule entry. Removing an absent entry is not
// an error.
func (q *CrystallizationQueue) Dequeue(ctx context.Context, at int64, fundID uint64) error {
	if at < 0 {
		return fmt.Errorf("crystallization time cannot be negative")
	}
	key := collections.Join(at, fundID)
	if ok, _ := q.KeySet.Has(ctx, key); !ok {
		return nil
	}
	return q.KeySet.Remove(ctx, key)
}

// Has reports whether the (time, fund) entry is scheduled.
func (q *CrystallizationQueue) Has(ctx context.Context, at int64, fundID uint64) (bool, error) {
	return q.KeySet.Has(ctx, collections.Join(at, fundID))
}

// WalkDue iterates over all entries with a timestamp <= now. For each due
// entry, the callback is invoked. Iteration stops when a key with time > now
// is encountered (since keys are ordered) or when the callback returns
// stop=true or an error.
func (q *CrystallizationQueue) WalkDue(ctx context.Context, now int64, fn func(at int64, fundID uint64) (stop bool, err error)) error {
	return q.KeySet.Walk(ctx, nil, func(key collections.Pair[int64, uint64]) (stop bool, err error) {
		if key.K1() > now {
			return true, nil
		}
		return fn(key.K1(), key.K2())
	})
}

// Walk iterates over all entries in the queue. Iteration stops when the
// callback returns stop=true or an error.
func (q *CrystallizationQueue) Walk(ctx context.Context, fn func(at int64, fundID uint64) (stop bool, err error)) error {
	return q.KeySet.Walk(ctx, nil, func(key collections.Pair[int64, uint64]) (stop bool, err error) {
		return fn(key.K1(), key.K2())
	})
}

// RemoveAllForFund clears every scheduled entry for the fund, regardless of
// timestamp.
func (q *CrystallizationQueue) RemoveAllForFund(ctx context.Context, fundID uint64) error {
	var keys []collections.Pair[int64, uint64]
	err := q.KeySet.Walk(ctx, nil, func(key collections.Pair[int64, uint64]) (bool, error) {
		if key.K2() == fundID {
			keys = append(keys, key)
		}
		return false, nil
	})
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := q.KeySet.Remove(ctx, key); err != nil {
			return fmt.Errorf("failed to remove crystallization entry: %w", err)
		}
	}
	return nil
}

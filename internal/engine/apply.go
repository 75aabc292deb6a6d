package engine

import (
	"context"
	"fmt"
	"log"

	"orderledger/internal/inventory"
)

// apply runs the two writes of a transition in their fixed order: sales
// ledger first, inventory ledger second. There is no transaction spanning
// both stores, so the failure mode of each phase is reported differently:
//
//   - ledger write fails: nothing happened anywhere, plain failure.
//   - inventory write fails: the ledger row is already committed and the
//     counters are now stale. That comes back as ResultPartial naming the
//     order/product pair; it is never retried here, a replay of create or
//     modify would double-apply revenue and committed quantity.
//
// ledger returns the order id it wrote (known up front for every operation
// except create, which learns it from the insert).
func (e *Engine) apply(
	ctx context.Context,
	op string,
	productID int64,
	ledger func(context.Context) (int64, error),
	mutate func(inventory.Counters) inventory.Counters,
) (int64, inventory.Counters, *Outcome) {
	orderID, err := ledger(ctx)
	if err != nil {
		log.Printf("%s: sales ledger write failed: %v", op, err)
		out := failure(op, KindStoreUnavailable,
			fmt.Sprintf("sales ledger is unavailable, nothing was written for product %d", productID))
		return 0, inventory.Counters{}, &out
	}

	counters, err := e.inv.Mutate(ctx, productID, mutate)
	if err != nil {
		log.Printf("%s: PARTIAL FAILURE order=%d product=%d: inventory write failed after ledger commit: %v",
			op, orderID, productID, err)
		out := partial(op, orderID, productID,
			fmt.Sprintf("order %d was written but inventory counters for product %d were not updated; ledgers need reconciliation", orderID, productID))
		return orderID, inventory.Counters{}, &out
	}
	return orderID, counters, nil
}

package domain

// ActiveSubscription replays a (user, fund) transaction history and returns
// the open subscription record, or nil when the last event closed it.
//
// The input must be ordered by timestamp ascending. A subscribe overwrites
// any previously open record and a cancel clears it; histories written
// outside the validated path (two subscribes with no cancel between them)
// therefore collapse to the latest open record instead of failing here.
// Rejecting a double subscribe is the workflow's job, not this function's.
func ActiveSubscription(history []Transaction) *Transaction {
	var active *Transaction
	for i := range history {
		switch history[i].Type {
		case TypeSubscribe:
			active = &history[i]
		case TypeCancel:
			active = nil
		}
	}
	return active
}

package orders

const (
	TopicOrderCommitted = "order.committed"
	TopicOrderModified  = "order.modified"
	TopicOrderScheduled = "order.scheduled"
	TopicOrderCompleted = "order.completed"
	TopicOrderCancelled = "order.cancelled"
	TopicOrderReturned  = "order.returned"

	// Partial failures land here for the reconciler worker.
	TopicReconcile = "order.reconcile"
)

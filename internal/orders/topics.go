package orders

const (
	TopicOrderCommitted = "order.committed"
	TopicOrderFailed    = "order.failed"
)

// Partition key = order_id so all events of one order keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

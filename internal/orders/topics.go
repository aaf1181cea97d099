package orders

const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status.changed"
)

// Partition key = order_num, supaya semua event 1 order maintain urutan.
func PartitionKey(orderNum string) []byte { return []byte(orderNum) }

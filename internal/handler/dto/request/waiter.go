package request

type CallWaiterRequest struct {
	TableID *int64 `json:"table_id"`
}

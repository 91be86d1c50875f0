package redisx

import "time"

const (
	// Idempotency submit generation: idem:generate:{idempotency_key} -> task_id
	KeyIdemGenerate = "idem:generate:%s"

	// State task generation: gen:task:{task_id} -> {"task_id","status","product_data"|"error"}
	KeyTask = "gen:task:%s"

	// Cache order: order:{order_id} -> order JSON, dihapus setiap kali order berubah
	KeyOrder = "order:%s"

	// Dedup event processing: dedup:{service}:{id} (id = event_id atau task_id)
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLTask        = time.Hour
	TTLOrderCache  = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)

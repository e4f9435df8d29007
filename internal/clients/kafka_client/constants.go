package kafka_client

import "time"

const (
	MAX_RETRIES      = 5
	RETRY_DELAY      = 2 * time.Second
	POLL_TIMEOUT     = 500 * time.Millisecond
	DELIVERY_TIMEOUT = 10 * time.Second
	FLUSH_TIMEOUT_MS = 5000
)

package clients

const (
	USER_AGENT = "feedbackflow-client/1.0 (+https://github.com/spacesedan/feedbackflow)"

	// responses are only previewed in logs, never dumped whole
	LOG_PREVIEW_LENGTH = 200
)

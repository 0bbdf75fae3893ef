package consts

const (
	TokenBlacklistKey = "auth:blacklist:"
	UploadTempKey     = "upload:temp"
)

const (
	FeedbackSubmitLock   = "lock:feedback:submit:"
	CounterReconcileLock = "lock:job:counter-reconcile"
	UploadCleanupLock    = "lock:job:upload-cleanup"
)

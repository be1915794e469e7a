package worker

// Log messages
const (
	LogMsgWorkerJobFailed     = "Worker job failed"
	LogMsgImportWorkerStarted = "Catalog import worker started"
	LogMsgImportWorkerStopped = "Catalog import worker stopped"
	LogMsgImportRunStarted    = "Catalog import run started"
	LogMsgImportRunFinished   = "Catalog import run finished"
)

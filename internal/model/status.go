package model

// TaskStatus represents the status of a single fixture file
type TaskStatus string

const (
	// TaskStatusPending means the track is planned but not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusEncoding means the encoder is synthesizing the tone
	TaskStatusEncoding TaskStatus = "Encoding"

	// TaskStatusEmbedding means the cover image is being attached
	TaskStatusEmbedding TaskStatus = "Embedding"

	// TaskStatusCompleted means the file exists on disk
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the encoder failed and the track was skipped
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if an encoder process is working on the track
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusEncoding || ts == TaskStatusEmbedding
}

// IsFinished returns true if the track is in a finished state (completed or error)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusError
}

package outbound

// TaskDispatcher hands work to the shared worker pool.
type TaskDispatcher interface {
	Submit(task func()) error
}

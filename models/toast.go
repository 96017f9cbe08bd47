package models

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toast is a transient on-screen notice.
type Toast struct {
	Message string    `json:"message"`
	Kind    ToastKind `json:"kind"`
	TTLMS   int64     `json:"ttl_ms"`
}

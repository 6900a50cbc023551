package services

// OperationKind tags the outcome variants mutating operations broadcast.
type OperationKind string

const (
	OperationIdle    OperationKind = "idle"
	OperationSuccess OperationKind = "success"
	OperationError   OperationKind = "error"
)

// OperationStatus is the discriminated result pushed to UI-layer subscribers
// after each mutating budget operation.
type OperationStatus struct {
	Kind    OperationKind `json:"kind"`
	Message string        `json:"message"`
}

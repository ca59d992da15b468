package cluster

import "errors"

var (
	// ErrClusterConnection wraps kubeconfig and API failures.
	ErrClusterConnection = errors.New("cluster connection failed")

	// ErrControllerNotFound means no sealed-secrets controller was discovered.
	ErrControllerNotFound = errors.New("sealed-secrets controller not found")

	// ErrKeyNotFound means the controller namespace holds no sealing key secret.
	ErrKeyNotFound = errors.New("sealed-secrets key secret not found")
)

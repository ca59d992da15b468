package kubeseal

import (
	"context"
	"fmt"

	"github.com/stuttgart-things/kubeseal-auto/internal/cluster"
	"github.com/stuttgart-things/kubeseal-auto/internal/release"
	"github.com/stuttgart-things/kubeseal-auto/internal/runner"
)

// ControllerLocator finds the sealed-secrets controller.
type ControllerLocator interface {
	Locate(ctx context.Context) (cluster.ControllerInfo, error)
}

// BinaryResolver picks the kubeseal binary for a controller version.
type BinaryResolver interface {
	Resolve(ctx context.Context, version string) release.Resolution
}

// Connection is a ready-to-use connected sealer and what it was built from.
type Connection struct {
	Sealer     *Sealer
	Controller cluster.ControllerInfo
	Binary     release.Resolution
}

// Connect locates the controller in contextName and resolves the matching
// kubeseal binary.
func Connect(ctx context.Context, locator ControllerLocator, resolver BinaryResolver, contextName string, r runner.Runner) (*Connection, error) {
	controller, err := locator.Locate(ctx)
	if err != nil {
		return nil, err
	}

	res := resolver.Resolve(ctx, controller.Version)
	if res.Kind == release.Unresolvable {
		return nil, fmt.Errorf("resolving kubeseal binary: %w", res.Err)
	}

	return &Connection{
		Sealer:     NewSealer(Connected(res.Path, contextName, controller), r),
		Controller: controller,
		Binary:     res,
	}, nil
}

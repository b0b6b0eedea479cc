package suite

import (
	"context"
	"fmt"

	"bundletest/internal/config"
	"bundletest/internal/model"
	"bundletest/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// expand builds and resolves one child suite per manifest constituent and
// returns the non-empty ones in manifest order.
func (s *Suite) expand(ctx context.Context, cfg *config.Config) ([]Element, error) {
	descriptors, err := s.deps.Resolver.Resolve(ctx, s.Model.Manifest, s.options.Deployment)
	if err != nil {
		return nil, fmt.Errorf("failed to expand %s: %w", s.Name, err)
	}

	children := make([]*Suite, len(descriptors))
	for i, d := range descriptors {
		m, err := model.ClassifyComponent(d.Directory)
		if err != nil {
			return nil, fmt.Errorf("service %s of %s: %w", d.Service, s.Name, err)
		}
		children[i] = New(m, s.options, cfg, s.deps)
	}

	if err := s.resolveChildren(ctx, children); err != nil {
		return nil, err
	}

	var elements []Element
	for _, child := range children {
		if child.Len() == 0 {
			logging.Debug(suiteSubsystem, "Dropping empty suite %s", child.Name)
			continue
		}
		elements = append(elements, Element{Suite: child})
	}
	return elements, nil
}

// resolveChildren runs FindSuite on every child. With Options.Parallel
// above 1 they run concurrently; the slice order is unaffected either way.
func (s *Suite) resolveChildren(ctx context.Context, children []*Suite) error {
	if s.options.Parallel < 2 {
		for _, child := range children {
			if err := child.FindSuite(ctx); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.options.Parallel)
	for _, child := range children {
		g.Go(func() error {
			return child.FindSuite(gctx)
		})
	}
	return g.Wait()
}

// Package commands composes scanning and rendering into the pretty-print operations.
package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/prettytree/internal/render"
	"github.com/temirov/prettytree/internal/scanner"
)

const (
	// errorRenderTreeFormat is used when rendering a scanned tree fails.
	errorRenderTreeFormat = "rendering tree for %s: %w"
	// errorBuildPoliciesFormat is used when the policies of a root cannot be assembled.
	errorBuildPoliciesFormat = "building policies for %s: %w"

	debugRootRendered = "root rendered"
	logFieldRoot      = "root"
	logFieldBytes     = "bytes"
)

// PolicyFactory builds the scan and render policies for a single root.
type PolicyFactory func(root string) (scanner.Policy, render.Policy, error)

// Option customizes a pretty-print call.
type Option func(*settings)

type settings struct {
	logger *zap.Logger
}

// WithLogger routes scan progress and per-root debug traces to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(current *settings) {
		if logger != nil {
			current.logger = logger
		}
	}
}

func newSettings(options []Option) settings {
	current := settings{logger: zap.NewNop()}
	for _, option := range options {
		option(&current)
	}
	return current
}

// PrettyPrint scans root with scanPolicy and renders the tree with renderPolicy.
func PrettyPrint(ctx context.Context, root string, scanPolicy scanner.Policy, renderPolicy render.Policy, options ...Option) (string, error) {
	current := newSettings(options)
	return prettyPrint(ctx, root, scanPolicy, renderPolicy, current.logger)
}

// PrettyPrintAll renders every root concurrently and returns the outputs in input order.
// The first failure cancels the remaining scans.
func PrettyPrintAll(ctx context.Context, roots []string, factory PolicyFactory, options ...Option) ([]string, error) {
	current := newSettings(options)
	outputs := make([]string, len(roots))
	group, groupCtx := errgroup.WithContext(ctx)
	for rootIndex, root := range roots {
		group.Go(func() error {
			scanPolicy, renderPolicy, policyError := factory(root)
			if policyError != nil {
				return fmt.Errorf(errorBuildPoliciesFormat, root, policyError)
			}
			output, printError := prettyPrint(groupCtx, root, scanPolicy, renderPolicy, current.logger)
			if printError != nil {
				return printError
			}
			outputs[rootIndex] = output
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}
	return outputs, nil
}

func prettyPrint(ctx context.Context, root string, scanPolicy scanner.Policy, renderPolicy render.Policy, logger *zap.Logger) (string, error) {
	tree, scanError := scanner.New(scanPolicy, scanner.WithLogger(logger)).Scan(ctx, root)
	if scanError != nil {
		return "", scanError
	}
	output, renderError := render.Render(tree, renderPolicy)
	if renderError != nil {
		return "", fmt.Errorf(errorRenderTreeFormat, root, renderError)
	}
	logger.Debug(debugRootRendered, zap.String(logFieldRoot, root), zap.Int(logFieldBytes, len(output)))
	return output, nil
}

package ports

import (
	"context"

	"go.trai.ch/resgraph/internal/core/domain"
)

// RuleResolver yields the action node for a target, creating it on first use.
//
//go:generate mockgen -source=rule_resolver.go -destination=mocks/mock_rule_resolver.go -package=mocks
type RuleResolver interface {
	// RequireRule returns the node for target.
	// It fails with domain.ErrNoSuchBuildTarget when the target is not declared.
	RequireRule(ctx context.Context, target domain.BuildTarget) (*domain.ActionNode, error)
}

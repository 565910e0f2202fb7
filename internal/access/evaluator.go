package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Repository loads the rows an access decision depends on.
type Repository interface {
	// FindResource returns ErrResourceNotFound when the id does not exist.
	FindResource(ctx context.Context, t ResourceType, id int64) (*Resource, error)
	// FindSubject returns ErrSubjectNotFound for a missing or deleted user.
	FindSubject(ctx context.Context, userID int64) (*Subject, error)
}

type Evaluator struct {
	repo   Repository
	logger *slog.Logger
}

func NewEvaluator(repo Repository, logger *slog.Logger) *Evaluator {
	return &Evaluator{repo: repo, logger: logger}
}

// Evaluate decides whether userID may act on one resource instance. The
// error is reserved for store failures; every denial is a Decision.
func (e *Evaluator) Evaluate(ctx context.Context, userID, resourceID int64, t ResourceType) (Decision, error) {
	if !t.Valid() {
		return DeniedRole, fmt.Errorf("%w: %q", ErrUnknownResourceType, t)
	}

	res, err := e.repo.FindResource(ctx, t, resourceID)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return NotFound, nil
		}
		return NotFound, fmt.Errorf("load %s %d: %w", t, resourceID, err)
	}

	sub, err := e.repo.FindSubject(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrSubjectNotFound) {
			return DeniedUnknownUser, nil
		}
		return DeniedUnknownUser, fmt.Errorf("load user %d: %w", userID, err)
	}

	return Decide(*sub, *res), nil
}

// CanAccessResource is the boolean form of Evaluate. It never fails: store
// errors are logged and answered with false.
func (e *Evaluator) CanAccessResource(ctx context.Context, userID, resourceID int64, t ResourceType) bool {
	d, err := e.Evaluate(ctx, userID, resourceID, t)
	if err != nil {
		e.logger.ErrorContext(ctx, "resource access check failed",
			"user_id", userID,
			"resource_type", t,
			"resource_id", resourceID,
			"error", err)
		return false
	}
	return d == Allowed
}

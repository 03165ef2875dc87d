package leads

import (
	"context"
	"fmt"

	"github.com/max-verstappen001/wiral-node-sub001/pkg/logging"
)

// Labeler is the slice of the helpdesk client the reconciler needs.
type Labeler interface {
	AddLabel(ctx context.Context, conversationID int, label string) error
	RemoveLabel(ctx context.Context, conversationID int, label string) error
}

// TagReconciler keeps the conversation's qualification label consistent with
// the latest classification: the winning category is added first, then every
// sibling category is removed. Removal failures are logged and swallowed so a
// conversation can transiently carry two labels but never zero.
type TagReconciler struct {
	labeler Labeler
	logger  *logging.Logger
}

// NewTagReconciler creates a reconciler over a helpdesk labeler.
func NewTagReconciler(labeler Labeler, logger *logging.Logger) *TagReconciler {
	if labeler == nil {
		panic("leads: labeler cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TagReconciler{labeler: labeler, logger: logger}
}

// Reconcile applies the winning category. An add failure propagates; the
// winner must land before siblings are touched.
func (r *TagReconciler) Reconcile(ctx context.Context, conversationID int, winner Category) error {
	if err := r.labeler.AddLabel(ctx, conversationID, string(winner)); err != nil {
		return fmt.Errorf("leads: add label %q: %w", winner, err)
	}
	for _, category := range AllCategories {
		if category == winner {
			continue
		}
		if err := r.labeler.RemoveLabel(ctx, conversationID, string(category)); err != nil {
			r.logger.Warn("failed to remove stale lead label",
				"conversation_id", conversationID,
				"label", category,
				"error", err)
		}
	}
	return nil
}

package reactive

// Batch groups multiple signal updates into a single notification phase.
// Updates inside fn are collected and deduplicated; affected listeners are
// notified once when the outermost batch completes.
//
// Batches can be nested.
func Batch(fn func()) {
	ctx := getTrackingContext()
	ctx.batchDepth++

	defer func() {
		ctx.batchDepth--
		if ctx.batchDepth == 0 {
			processPendingUpdates(ctx)
			releaseIfIdle(ctx)
		}
	}()

	fn()
}

// processPendingUpdates deduplicates and notifies all queued listeners.
func processPendingUpdates(ctx *trackingContext) {
	updates := ctx.pendingUpdates
	ctx.pendingUpdates = nil
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(updates))
	for _, listener := range updates {
		if seen[listener.ID()] {
			continue
		}
		seen[listener.ID()] = true
		listener.MarkDirty()
	}
}

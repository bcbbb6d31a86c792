package syncService

import (
	"context"
	"errors"
	"net"
	"net/url"

	"github.com/KotFed0t/stock_sync/internal/model"
)

func classify(err error) model.FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return model.TransportTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.TransportTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return model.ConnectionFailure
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return model.ConnectionFailure
	}

	return model.GenericFailure
}

func stepResult(step model.Step, items, batches int, err error) model.StepResult {
	res := model.StepResult{Step: step, Items: items, Batches: batches}
	if err != nil {
		res.Err = err
		res.Kind = classify(err)
	}
	return res
}

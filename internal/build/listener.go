package build

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pixil98/go-fortress/internal/geom"
	"github.com/pixil98/go-log"
)

// RequestSubject is the messaging subject construction orders arrive on.
const RequestSubject = "fortress.build.request"

// Subscriber provides the ability to subscribe to message subjects.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (unsubscribe func(), err error)
}

// buildRequest is the wire form of a construction order.
type buildRequest struct {
	Blueprint string  `json:"blueprint"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// RequestListener accepts construction orders over the message bus so an
// operator or UI can order builds at runtime.
type RequestListener struct {
	sub Subscriber
	mgr *Manager
}

// NewRequestListener creates a listener feeding the given manager.
func NewRequestListener(sub Subscriber, mgr *Manager) *RequestListener {
	return &RequestListener{
		sub: sub,
		mgr: mgr,
	}
}

// Start subscribes to the request subject and serves until the context is
// done. The messaging server starts concurrently, so subscription is
// retried until the bus is up.
func (l *RequestListener) Start(ctx context.Context) error {
	logger := log.GetLogger(ctx)

	var unsub func()
	for {
		u, err := l.sub.Subscribe(RequestSubject, func(data []byte) {
			l.handle(ctx, data)
		})
		if err == nil {
			unsub = u
			break
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(500 * time.Millisecond):
		}
	}
	defer unsub()

	logger.Infof("accepting build requests on %s", RequestSubject)

	<-ctx.Done()
	return nil
}

func (l *RequestListener) handle(ctx context.Context, data []byte) {
	logger := log.GetLogger(ctx)

	var req buildRequest
	if err := json.Unmarshal(data, &req); err != nil {
		logger.Errorf("parsing build request: %s", err)
		return
	}

	_, err := l.mgr.Request(ctx, req.Blueprint, geom.Point{X: req.X, Y: req.Y})
	if err != nil {
		logger.Errorf("rejecting build request: %s", err)
	}
}

package events

import "context"

type requestIDKey struct{}

// WithRequestID tags ctx so events published under it carry id.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request ID set by WithRequestID, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func stamp(ctx context.Context, evt Event) Event {
	if evt.RequestID == "" {
		evt.RequestID = RequestIDFrom(ctx)
	}
	return evt
}

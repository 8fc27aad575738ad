// internal/browser/cdp/context_utils.go
package cdp

import "context"

// CombineContext derives a context from session that is also cancelled when op
// is. Values come from session only, since that is where chromedp keeps the
// target connection; op contributes the caller's deadline and cancellation.
func CombineContext(session, op context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(session)

	go func() {
		select {
		case <-op.Done():
			cancel()
		case <-combined.Done():
		}
	}()

	return combined, cancel
}

// Package relay pulls a motion-JPEG stream from a network camera, optionally
// annotates every frame with the detection capability, and hands the frames to
// a consumer one at a time.
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"findit/internal/logger"
	"findit/internal/service/vision"
)

var (
	// ErrUpstreamUnavailable covers every way the camera can fail us: refused or
	// timed-out connection, non-2xx status, stalled reads, unframeable data.
	ErrUpstreamUnavailable = errors.New("upstream stream unavailable")
	// ErrReadTimeout is returned when an established stream sends nothing for
	// longer than the read timeout.
	ErrReadTimeout = fmt.Errorf("%w: read timed out", ErrUpstreamUnavailable)
)

// Options tune a Relay. Zero values fall back to defaults.
type Options struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	ChunkSize      int
	MaxFrameBytes  int
	// PassThroughOnError forwards the raw frame when annotation fails instead
	// of dropping it.
	PassThroughOnError bool
}

func (o Options) withDefaults() Options {
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = 5 * time.Second
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 5 * time.Second
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = 4096
	}
	if o.MaxFrameBytes <= 0 {
		o.MaxFrameBytes = DefaultMaxFrameBytes
	}
	return o
}

// Stats summarizes one Stream call.
type Stats struct {
	BytesRead int64
	Frames    int // frames extracted from the source
	Emitted   int
	Skipped   int
}

// Relay holds shared, read-only collaborators. Every Stream call opens its own
// upstream connection and extractor, so one Relay serves any number of
// concurrent consumers.
type Relay struct {
	client     *http.Client
	capability vision.Capability
	opts       Options
	logger     *logger.Logger
}

func New(capability vision.Capability, opts Options, log *logger.Logger) *Relay {
	opts = opts.withDefaults()
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   opts.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ResponseHeaderTimeout: opts.ConnectTimeout,
		TLSHandshakeTimeout:   opts.ConnectTimeout,
		DisableCompression:    true,
	}
	if capability == nil {
		capability = vision.Nop{}
	}
	return &Relay{
		client:     &http.Client{Transport: transport},
		capability: capability,
		opts:       opts,
		logger:     log,
	}
}

// Stream connects to sourceURL and calls emit for every frame, in the order the
// frames completed in the source. With annotate set and a capability
// available, frames are replaced by their annotated rendering; frames that
// fail to annotate are skipped. Stream returns when the source ends, a read
// stalls, ctx is cancelled, or emit fails. The connection is closed on every
// path. Connection failures return ErrUpstreamUnavailable before any emit.
func (r *Relay) Stream(ctx context.Context, sourceURL string, annotate bool, emit func(frame []byte) error) (Stats, error) {
	var stats Stats

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return stats, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return stats, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return stats, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	annotate = annotate && vision.IsAvailable(r.capability)

	// Idle watchdog: cancelling ctx unblocks a Read stuck on a silent camera.
	var timedOut atomic.Bool
	watchdog := time.AfterFunc(r.opts.ReadTimeout, func() {
		timedOut.Store(true)
		cancel()
	})
	defer watchdog.Stop()

	extractor := NewExtractor(r.opts.MaxFrameBytes)
	chunk := make([]byte, r.opts.ChunkSize)

	for {
		watchdog.Reset(r.opts.ReadTimeout)
		n, readErr := resp.Body.Read(chunk)
		watchdog.Stop()
		stats.BytesRead += int64(n)

		if n > 0 {
			frames, err := extractor.Push(chunk[:n])
			for _, frame := range frames {
				stats.Frames++
				outcome := r.process(ctx, frame, annotate)
				switch outcome.Kind {
				case Emit:
					if err := emit(outcome.Frame); err != nil {
						return stats, fmt.Errorf("emit frame: %w", err)
					}
					stats.Emitted++
				case Skip:
					stats.Skipped++
					r.logger.Debug("Skipping frame %d from %s: %v", stats.Frames, sourceURL, outcome.Reason)
				case Fail:
					return stats, failReason(outcome.Reason, timedOut.Load())
				}
			}
			if err != nil {
				return stats, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
			}
		}

		if readErr != nil {
			switch {
			case errors.Is(readErr, io.EOF):
				return stats, nil
			case timedOut.Load():
				return stats, ErrReadTimeout
			case ctx.Err() != nil:
				return stats, ctx.Err()
			default:
				return stats, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, readErr)
			}
		}
	}
}

// failReason reports a frame that failed because the idle watchdog cancelled
// the stream as a read timeout rather than a cancellation.
func failReason(reason error, timedOut bool) error {
	if timedOut && errors.Is(reason, context.Canceled) {
		return ErrReadTimeout
	}
	return reason
}

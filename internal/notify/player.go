package notify

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultQueueSize   = 16
	defaultSendTimeout = 30 * time.Second
)

type signalKind int

const (
	signalPlay signalKind = iota
	signalFlash
	signalSetDevice
	signalTerminate
)

type signal struct {
	kind         signalKind
	track        Track
	notification Notification
	device       string
}

// ErrPlayerStopped is returned by Terminate when the worker already exited.
var ErrPlayerStopped = errors.New("player stopped")

// Player serializes all output on one worker goroutine.
//
// Play, Flash and SetDevice never block: when the queue is full the signal is
// dropped and logged. Run must be called exactly once.
type Player struct {
	sender  Sender
	signals chan signal
	done    chan struct{}
	logger  zerolog.Logger
	timeout time.Duration

	// device is owned by the worker goroutine.
	device string
}

// PlayerOption customises the Player.
type PlayerOption func(*Player)

// WithQueueSize sets the signal buffer size.
func WithQueueSize(n int) PlayerOption {
	return func(p *Player) {
		if n > 0 {
			p.signals = make(chan signal, n)
		}
	}
}

// WithSendTimeout bounds a single sound or visual invocation.
func WithSendTimeout(d time.Duration) PlayerOption {
	return func(p *Player) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithPlayerLogger sets the logger for output failures.
func WithPlayerLogger(logger zerolog.Logger) PlayerOption {
	return func(p *Player) {
		p.logger = logger
	}
}

// WithDevice sets the initial output device.
func WithDevice(device string) PlayerOption {
	return func(p *Player) {
		p.device = device
	}
}

// NewPlayer creates a player writing to sender.
func NewPlayer(sender Sender, opts ...PlayerOption) *Player {
	if sender == nil {
		sender = &noopSender{}
	}
	p := &Player{
		sender:  sender,
		signals: make(chan signal, defaultQueueSize),
		done:    make(chan struct{}),
		logger:  zerolog.Nop(),
		timeout: defaultSendTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play queues a track. Returns false when the signal was dropped.
func (p *Player) Play(t Track) bool {
	return p.offer(signal{kind: signalPlay, track: t})
}

// Flash queues a desktop notification.
func (p *Player) Flash(n Notification) bool {
	return p.offer(signal{kind: signalFlash, notification: n})
}

// SetDevice switches the output device for subsequent tracks.
func (p *Player) SetDevice(device string) bool {
	return p.offer(signal{kind: signalSetDevice, device: device})
}

func (p *Player) offer(s signal) bool {
	select {
	case p.signals <- s:
		return true
	default:
		p.logger.Warn().Int("kind", int(s.kind)).Msg("notification queue full, dropping signal")
		return false
	}
}

// Terminate asks the worker to exit after draining queued signals and waits
// for it to finish.
func (p *Player) Terminate(ctx context.Context) error {
	select {
	case <-p.done:
		return ErrPlayerStopped
	default:
	}
	select {
	case p.signals <- signal{kind: signalTerminate}:
	case <-p.done:
		return ErrPlayerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when the worker exits.
func (p *Player) Done() <-chan struct{} {
	return p.done
}

// Run processes signals until Terminate is received or ctx is cancelled.
func (p *Player) Run(ctx context.Context) {
	defer close(p.done)
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-p.signals:
			if s.kind == signalTerminate {
				return
			}
			p.handle(ctx, s)
		}
	}
}

func (p *Player) handle(ctx context.Context, s signal) {
	switch s.kind {
	case signalSetDevice:
		if s.device != p.device {
			p.logger.Info().Str("device", s.device).Msg("audio output device changed")
		}
		p.device = s.device
	case signalFlash:
		sendCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		if err := p.sender.SendVisual(sendCtx, s.notification); err != nil {
			p.logger.Warn().Err(err).Msg("desktop notification failed")
		}
	case signalPlay:
		p.play(ctx, s.track)
	}
}

func (p *Player) play(ctx context.Context, t Track) {
	file := t.File
	if err := ValidateSoundFile(file); err != nil {
		p.logger.Warn().Err(err).Str("track", string(t.Kind)).Msg("custom sound rejected, using default")
		file = ""
	}
	sendCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.sender.SendSound(sendCtx, file, clampVolume(t.Volume), p.device); err != nil {
		p.logger.Warn().Err(err).
			Str("track", string(t.Kind)).
			Str("device", p.device).
			Msg("sound playback failed")
	}
}

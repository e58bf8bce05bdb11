package notify

import (
	"context"
	"errors"
	"sync"
)

// soundCall records one SendSound invocation.
type soundCall struct {
	File   string
	Volume int
	Device string
}

// MockSender records all calls and returns configured errors.
type MockSender struct {
	mu sync.Mutex

	VisualError error
	SoundError  error
	SoundFunc   func(ctx context.Context, call soundCall) error

	VisualCalls []Notification
	SoundCalls  []soundCall
}

// NewMockSender creates a new mock sender with default behavior (no errors)
func NewMockSender() *MockSender {
	return &MockSender{}
}

// WithSoundError configures the mock to return an error on SendSound
func (m *MockSender) WithSoundError(err error) *MockSender {
	m.SoundError = err
	return m
}

// WithVisualError configures the mock to return an error on SendVisual
func (m *MockSender) WithVisualError(err error) *MockSender {
	m.VisualError = err
	return m
}

// WithSoundFunc configures a custom sound function
func (m *MockSender) WithSoundFunc(fn func(ctx context.Context, call soundCall) error) *MockSender {
	m.SoundFunc = fn
	return m
}

func (m *MockSender) SendVisual(_ context.Context, n Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VisualCalls = append(m.VisualCalls, n)
	return m.VisualError
}

func (m *MockSender) SendSound(ctx context.Context, soundFile string, volume int, device string) error {
	call := soundCall{File: soundFile, Volume: volume, Device: device}
	m.mu.Lock()
	m.SoundCalls = append(m.SoundCalls, call)
	fn := m.SoundFunc
	err := m.SoundError
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, call)
	}
	return err
}

func (m *MockSender) VisualAvailable() bool { return true }
func (m *MockSender) SoundAvailable() bool  { return true }

// Sounds returns a copy of the recorded sound calls.
func (m *MockSender) Sounds() []soundCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]soundCall(nil), m.SoundCalls...)
}

// Visuals returns a copy of the recorded visual calls.
func (m *MockSender) Visuals() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Notification(nil), m.VisualCalls...)
}

// recordingOutput records queued output without a worker.
type recordingOutput struct {
	tracks  []Track
	flashes []Notification
	devices []string
	accept  bool
}

func newRecordingOutput() *recordingOutput {
	return &recordingOutput{accept: true}
}

func (o *recordingOutput) Play(t Track) bool {
	o.tracks = append(o.tracks, t)
	return o.accept
}

func (o *recordingOutput) Flash(n Notification) bool {
	o.flashes = append(o.flashes, n)
	return o.accept
}

func (o *recordingOutput) SetDevice(device string) bool {
	o.devices = append(o.devices, device)
	return o.accept
}

// Common test errors
var (
	ErrMockVisual = errors.New("mock visual notification error")
	ErrMockSound  = errors.New("mock sound notification error")
)

package player

import (
	"sync"
	"time"

	"fonograf/pkg/models"
)

// RepeatMode controls what happens when the current item finishes.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

func (m RepeatMode) String() string {
	switch m {
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "off"
	}
}

// State represents the current player state
type State struct {
	Item       models.MediaItem `json:"-"`
	IsPlaying  bool             `json:"isPlaying"`
	Volume     float64          `json:"volume"` // 0.0 to 1.0
	IsMuted    bool             `json:"isMuted"`
	IsShuffled bool             `json:"isShuffled"`
	Repeat     RepeatMode       `json:"repeatMode"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// QueueSource feeds the manager its next item and records play history.
type QueueSource interface {
	PopQueueFront() (models.MediaItem, bool, error)
	MarkPlayed(ref models.ItemRef) error
}

// Manager tracks what is playing and notifies listeners on every change.
type Manager struct {
	queue     QueueSource
	state     *State
	mutex     sync.RWMutex
	listeners []chan *State
}

// NewManager creates a player state manager fed from the given queue.
func NewManager(queue QueueSource) *Manager {
	return &Manager{
		queue: queue,
		state: &State{
			Volume:    1.0,
			UpdatedAt: time.Now(),
		},
		listeners: make([]chan *State, 0),
	}
}

// GetState returns the current player state (thread-safe)
func (m *Manager) GetState() *State {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	// Create a copy to avoid race conditions
	stateCopy := *m.state
	return &stateCopy
}

// Next pops the front of the queue and makes it the current item, recording a
// play for it. ok=false means the queue ran empty; the previous item keeps
// playing out in that case and the state is untouched.
func (m *Manager) Next() (models.MediaItem, bool, error) {
	item, ok, err := m.queue.PopQueueFront()
	if err != nil {
		return models.MediaItem{}, false, err
	}
	if !ok {
		return models.MediaItem{}, false, nil
	}

	if err := m.queue.MarkPlayed(item.Ref()); err != nil {
		return models.MediaItem{}, false, err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.state.Item = item
	m.state.IsPlaying = true
	m.state.UpdatedAt = time.Now()
	m.notifyListeners()
	return item, true, nil
}

// Play records a play for the given item directly, bypassing the queue, and
// makes it the current item.
func (m *Manager) Play(item models.MediaItem) error {
	if err := m.queue.MarkPlayed(item.Ref()); err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.state.Item = item
	m.state.IsPlaying = true
	m.state.UpdatedAt = time.Now()
	m.notifyListeners()
	return nil
}

// UpdatePlaybackState updates playback state (playing/paused)
func (m *Manager) UpdatePlaybackState(isPlaying bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.state.IsPlaying = isPlaying
	m.state.UpdatedAt = time.Now()
	m.notifyListeners()
}

// UpdateVolume updates volume and mute state
func (m *Manager) UpdateVolume(volume float64, isMuted bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.state.Volume = volume
	m.state.IsMuted = isMuted
	m.state.UpdatedAt = time.Now()
	m.notifyListeners()
}

// UpdateSettings updates player settings (shuffle, repeat)
func (m *Manager) UpdateSettings(isShuffled bool, repeat RepeatMode) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.state.IsShuffled = isShuffled
	m.state.Repeat = repeat
	m.state.UpdatedAt = time.Now()
	m.notifyListeners()
}

// Stop clears the current item (when playback stops)
func (m *Manager) Stop() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.state.Item = models.MediaItem{}
	m.state.IsPlaying = false
	m.state.UpdatedAt = time.Now()
	m.notifyListeners()
}

// Subscribe adds a listener for state changes
func (m *Manager) Subscribe() <-chan *State {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	ch := make(chan *State, 10) // Buffered channel to prevent blocking
	m.listeners = append(m.listeners, ch)
	return ch
}

// Unsubscribe removes a listener (call this when done to prevent memory leaks)
func (m *Manager) Unsubscribe(ch <-chan *State) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for i, listener := range m.listeners {
		if listener == ch {
			close(listener)
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			break
		}
	}
}

// notifyListeners sends state updates to all subscribers (must be called with lock held)
func (m *Manager) notifyListeners() {
	stateCopy := *m.state
	alive := m.listeners[:0]
	for _, listener := range m.listeners {
		select {
		case listener <- &stateCopy:
			alive = append(alive, listener)
		default:
			// Channel is full, drop the listener
			close(listener)
		}
	}
	m.listeners = alive
}

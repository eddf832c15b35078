package player

import (
	"errors"
	"testing"
	"time"

	"fonograf/pkg/models"
)

type fakeQueue struct {
	items  []models.MediaItem
	popErr error
	played []models.ItemRef
}

func (q *fakeQueue) PopQueueFront() (models.MediaItem, bool, error) {
	if q.popErr != nil {
		return models.MediaItem{}, false, q.popErr
	}
	if len(q.items) == 0 {
		return models.MediaItem{}, false, nil
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true, nil
}

func (q *fakeQueue) MarkPlayed(ref models.ItemRef) error {
	q.played = append(q.played, ref)
	return nil
}

func trackItem(filename string) models.MediaItem {
	return models.TrackItem(&models.Track{Filename: filename})
}

func TestNextAdvancesThroughQueue(t *testing.T) {
	queue := &fakeQueue{items: []models.MediaItem{
		trackItem("/music/a.mp3"),
		trackItem("/music/b.mp3"),
	}}
	manager := NewManager(queue)

	item, ok, err := manager.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !ok {
		t.Fatal("expected an item")
	}
	if filename, _ := item.Ref().TrackFilename(); filename != "/music/a.mp3" {
		t.Errorf("wrong item: %v", item.Ref())
	}

	state := manager.GetState()
	if state.Item.IsZero() || !state.IsPlaying {
		t.Errorf("state not updated: %+v", state)
	}

	if len(queue.played) != 1 || queue.played[0] != models.TrackRef("/music/a.mp3") {
		t.Errorf("play not recorded: %v", queue.played)
	}
}

func TestNextOnEmptyQueueLeavesStateAlone(t *testing.T) {
	queue := &fakeQueue{items: []models.MediaItem{trackItem("/music/a.mp3")}}
	manager := NewManager(queue)

	if _, _, err := manager.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	before := manager.GetState()

	_, ok, err := manager.Next()
	if err != nil {
		t.Fatalf("Next on empty: %v", err)
	}
	if ok {
		t.Error("empty queue reported an item")
	}

	after := manager.GetState()
	if after.Item.Ref() != before.Item.Ref() || after.IsPlaying != before.IsPlaying {
		t.Error("state changed on empty pop")
	}
	if len(queue.played) != 1 {
		t.Errorf("play recorded for nothing: %v", queue.played)
	}
}

func TestNextPropagatesQueueError(t *testing.T) {
	queue := &fakeQueue{popErr: errors.New("database gone")}
	manager := NewManager(queue)
	if _, _, err := manager.Next(); err == nil {
		t.Error("expected pop error to surface")
	}
}

func TestPlayRecordsDirectPlay(t *testing.T) {
	queue := &fakeQueue{}
	manager := NewManager(queue)

	item := trackItem("/music/direct.mp3")
	if err := manager.Play(item); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if len(queue.played) != 1 || queue.played[0] != models.TrackRef("/music/direct.mp3") {
		t.Errorf("play not recorded: %v", queue.played)
	}
	if state := manager.GetState(); !state.IsPlaying {
		t.Error("player not marked playing")
	}
}

func TestStopClearsCurrentItem(t *testing.T) {
	queue := &fakeQueue{items: []models.MediaItem{trackItem("/music/a.mp3")}}
	manager := NewManager(queue)

	if _, _, err := manager.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	manager.Stop()

	state := manager.GetState()
	if !state.Item.IsZero() || state.IsPlaying {
		t.Errorf("stop did not clear state: %+v", state)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	manager := NewManager(&fakeQueue{})
	ch := manager.Subscribe()
	defer manager.Unsubscribe(ch)

	manager.UpdatePlaybackState(true)

	select {
	case state := <-ch:
		if !state.IsPlaying {
			t.Errorf("unexpected state: %+v", state)
		}
	case <-time.After(time.Second):
		t.Fatal("no state update received")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	manager := NewManager(&fakeQueue{})
	ch := manager.Subscribe()
	manager.Unsubscribe(ch)

	if _, open := <-ch; open {
		t.Error("channel still open after unsubscribe")
	}
}

func TestSaturatedSubscribersAreDropped(t *testing.T) {
	manager := NewManager(&fakeQueue{})
	first := manager.Subscribe()
	second := manager.Subscribe()

	// Never drain either channel; once both buffers fill, further
	// notifications must drop both listeners without panicking.
	for i := 0; i < 15; i++ {
		manager.UpdatePlaybackState(i%2 == 0)
	}

	drained := func(ch <-chan *State) {
		t.Helper()
		for {
			select {
			case _, open := <-ch:
				if !open {
					return
				}
			case <-time.After(time.Second):
				t.Fatal("channel never closed after saturation")
			}
		}
	}
	drained(first)
	drained(second)

	// Remaining listeners are gone, so later updates still work.
	manager.UpdatePlaybackState(true)
	if !manager.GetState().IsPlaying {
		t.Error("state not updated after listeners were dropped")
	}
}

func TestUpdateSettings(t *testing.T) {
	manager := NewManager(&fakeQueue{})
	manager.UpdateSettings(true, RepeatOne)

	state := manager.GetState()
	if !state.IsShuffled || state.Repeat != RepeatOne {
		t.Errorf("settings not applied: %+v", state)
	}
	if RepeatOne.String() != "one" || RepeatOff.String() != "off" || RepeatAll.String() != "all" {
		t.Error("repeat mode strings wrong")
	}
}

package jobs

import (
	"sync"

	"github.com/google/uuid"
)

type Event struct {
	JobID    uint
	Status   Status
	Progress int
}

type Queue struct {
	id uuid.UUID
	Ch chan Event
}

func newQueue() *Queue {
	return &Queue{
		id: uuid.Must(uuid.NewV7()),
		Ch: make(chan Event, 16),
	}
}

var listenersMu sync.Mutex
var listeners = map[uint][]*Queue{}

func Subscribe(userID uint) *Queue {
	listenersMu.Lock()
	defer listenersMu.Unlock()

	q := newQueue()
	listeners[userID] = append(listeners[userID], q)
	return q
}

func Unsubscribe(userID uint, q *Queue) {
	listenersMu.Lock()
	defer listenersMu.Unlock()

	qs, ok := listeners[userID]
	if !ok {
		return
	}

	newQs := []*Queue{}
	for _, oldQ := range qs {
		if oldQ != q {
			newQs = append(newQs, oldQ)
		}
	}
	listeners[userID] = newQs
}

// Publish delivers an event to every queue of the user. Slow listeners with a
// full buffer are skipped rather than blocking the pipeline.
func Publish(userID uint, event Event) {
	listenersMu.Lock()
	defer listenersMu.Unlock()

	for _, q := range listeners[userID] {
		select {
		case q.Ch <- event:
		default:
		}
	}
}

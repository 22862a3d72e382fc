package events

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	BookingConfirmed Type = "booking_confirmed"
	BookingAssigned  Type = "booking_assigned"
	BookingStarted   Type = "booking_started"
	BookingCompleted Type = "booking_completed"
	BookingCancelled Type = "booking_cancelled"
	PayoutCredited   Type = "payout_credited"
	WithdrawalUpdate Type = "withdrawal_update"
)

// Event is a domain side effect emitted by a booking/settlement transition.
// Delivery is fire-and-forget: the core never waits on listeners.
type Event struct {
	Type        Type       `json:"type"`
	BookingID   uuid.UUID  `json:"booking_id"`
	CustomerID  uuid.UUID  `json:"customer_id"`
	WorkerID    *uuid.UUID `json:"worker_id,omitempty"`
	Reference   string     `json:"reference"`
	AmountPaise int64      `json:"amount_paise"`
	Currency    string     `json:"currency"`
	OccurredAt  time.Time  `json:"occurred_at"`
}

type Listener func(Event)

var (
	listenersMu sync.RWMutex
	listeners   []Listener
	queue       = make(chan Event, 256)
)

func RegisterListener(l Listener) {
	listenersMu.Lock()
	listeners = append(listeners, l)
	listenersMu.Unlock()
}

// Publish enqueues an event without blocking the publishing transaction.
func Publish(e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	select {
	case queue <- e:
	default:
		log.Printf("⚠️ Event queue full, dropping %s for booking %s", e.Type, e.BookingID)
	}
}

// Run dispatches queued events to every registered listener. Started once
// from main as a goroutine.
func Run() {
	for e := range queue {
		listenersMu.RLock()
		snapshot := make([]Listener, len(listeners))
		copy(snapshot, listeners)
		listenersMu.RUnlock()
		for _, l := range snapshot {
			l(e)
		}
	}
}

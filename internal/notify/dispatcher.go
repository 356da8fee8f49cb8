package notify

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Kenyi45/seventec-reto/internal/repository"
	"github.com/Kenyi45/seventec-reto/model"
)

const sendTimeout = 10 * time.Second

type broadcast struct {
	title string
	body  string
	data  map[string]string
}

// Dispatcher owns a bounded queue consumed by a single worker. Enqueueing
// never blocks the caller: when the queue is full the broadcast is
// dropped and logged, never propagated to the triggering request.
type Dispatcher struct {
	sender Sender
	users  repository.UserStore
	queue  chan broadcast
	wg     sync.WaitGroup
}

func NewDispatcher(sender Sender, users repository.UserStore, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Dispatcher{
		sender: sender,
		users:  users,
		queue:  make(chan broadcast, queueSize),
	}
}

// Start launches the worker. Call Close to drain and stop it.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for b := range d.queue {
			d.deliver(b)
		}
	}()
}

// Close stops accepting broadcasts, drains the queue and waits for the
// worker to finish.
func (d *Dispatcher) Close() {
	close(d.queue)
	d.wg.Wait()
}

// PostCreated announces a new post to participants. Content authored by
// participants (should that ever be permitted) must not notify
// organizers, so targeting is fixed to participants here and in deliver.
func (d *Dispatcher) PostCreated(p *model.Post) {
	d.enqueue(broadcast{
		title: "New post",
		body:  fmt.Sprintf("%s published: %s", p.AuthorName, p.Title),
		data: map[string]string{
			"type":    "new_post",
			"post_id": p.ID.Hex(),
			"author":  p.AuthorName,
		},
	})
}

// StoryCreated announces a new story to participants.
func (d *Dispatcher) StoryCreated(s *model.Story) {
	d.enqueue(broadcast{
		title: "New story",
		body:  fmt.Sprintf("%s published a new story", s.AuthorName),
		data: map[string]string{
			"type":     "new_story",
			"story_id": s.ID.Hex(),
			"author":   s.AuthorName,
		},
	})
}

func (d *Dispatcher) enqueue(b broadcast) {
	select {
	case d.queue <- b:
	default:
		log.Printf("notify: queue full, dropping broadcast %q", b.title)
	}
}

// deliver resolves the recipient set and makes one best-effort attempt
// per device token. Failures are logged and dropped.
func (d *Dispatcher) deliver(b broadcast) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	recipients, err := d.users.ParticipantsWithPushToken(ctx)
	cancel()
	if err != nil {
		log.Printf("notify: resolving recipients: %v", err)
		return
	}

	for _, u := range recipients {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := d.sender.Send(ctx, Message{
			Token: u.FCMToken,
			Title: b.title,
			Body:  b.body,
			Data:  b.data,
		})
		cancel()
		if err != nil {
			log.Printf("notify: send to %s failed: %v", u.ID.Hex(), err)
		}
	}
}

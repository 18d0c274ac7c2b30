package notify

import (
	"log"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Notification is one email job.
type Notification struct {
	To      string
	Subject string
	Body    string // HTML
}

// Notifier delivers notifications through a bounded worker pool. Enqueue
// never blocks request handling; a full queue drops the job with a log
// line, and one failing send never stalls the others.
type Notifier struct {
	jobs      chan Notification
	wg        sync.WaitGroup
	closeOnce sync.Once

	sendgridKey string
	senderEmail string
	senderName  string
}

// NewNotifier starts workers goroutines draining a buffered queue. With an
// empty sendgrid key the notifier logs instead of sending (local dev).
func NewNotifier(workers, queueSize int, sendgridKey, senderEmail, senderName string) *Notifier {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 64
	}

	n := &Notifier{
		jobs:        make(chan Notification, queueSize),
		sendgridKey: sendgridKey,
		senderEmail: senderEmail,
		senderName:  senderName,
	}

	for i := 0; i < workers; i++ {
		n.wg.Add(1)
		go n.worker()
	}

	log.Printf("[NOTIFY] Started %d notification workers (queue size %d)", workers, queueSize)
	return n
}

// Enqueue submits a notification. Returns false when the queue is full.
func (n *Notifier) Enqueue(msg Notification) bool {
	select {
	case n.jobs <- msg:
		return true
	default:
		log.Printf("[NOTIFY] Queue full, dropping notification to %s (%s)", msg.To, msg.Subject)
		return false
	}
}

// Close stops accepting jobs and waits for in-flight sends to finish.
func (n *Notifier) Close() {
	n.closeOnce.Do(func() {
		close(n.jobs)
	})
	n.wg.Wait()
}

func (n *Notifier) worker() {
	defer n.wg.Done()
	for msg := range n.jobs {
		if err := n.send(msg); err != nil {
			log.Printf("[NOTIFY] Failed to send %q to %s: %v", msg.Subject, msg.To, err)
		}
	}
}

func (n *Notifier) send(msg Notification) error {
	if n.sendgridKey == "" {
		log.Printf("[NOTIFY] (dry run) To: %s Subject: %s", msg.To, msg.Subject)
		return nil
	}

	from := mail.NewEmail(n.senderName, n.senderEmail)
	to := mail.NewEmail("", msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, "", msg.Body)

	client := sendgrid.NewSendClient(n.sendgridKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("[NOTIFY] Sendgrid returned %d for %s: %s", resp.StatusCode, msg.To, resp.Body)
	}
	return nil
}

package notify

import (
	"encoding/json"
	"time"

	"authform/internal/log"

	"github.com/nats-io/nats.go"
)

// Default subjects
const (
	SubjectSuccess = "authform.notify.success"
	SubjectError   = "authform.notify.error"
)

// Publisher is satisfied by *nats.Conn
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Event is the payload published for every notification
type Event struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// NATS publishes notifications as events so other devices or dashboards can mirror them
// A nil publisher turns it into a no-op
type NATS struct {
	pub    Publisher
	logger log.Logger
	now    func() time.Time
}

func NewNATS(pub Publisher, logger log.Logger) *NATS {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &NATS{pub: pub, logger: logger, now: time.Now}
}

// ConnectNATS dials url and returns a notifier plus the connection to drain on exit
func ConnectNATS(url string, logger log.Logger) (*NATS, *nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Name("authform"))
	if err != nil {
		return nil, nil, err
	}
	return NewNATS(nc, logger), nc, nil
}

func (n *NATS) Success(msg string) {
	n.publish(SubjectSuccess, "success", msg)
}

func (n *NATS) Error(msg string) {
	n.publish(SubjectError, "error", msg)
}

func (n *NATS) publish(subject, level, msg string) {
	if n == nil || n.pub == nil {
		return
	}
	data, err := json.Marshal(Event{Level: level, Message: msg, At: n.now().UTC()})
	if err != nil {
		n.logger.Error("encode notification failed", err)
		return
	}
	if err := n.pub.Publish(subject, data); err != nil {
		n.logger.Warn("publish notification failed", "subject", subject, "error", err)
	}
}

package core

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/evilsocket/islazy/log"
	"github.com/nats-io/nats.go"

	"github.com/evilsocket/alertboard/models"
)

const natsConnectTimeout = 10 * time.Second

// Publisher pushes every snapshot as JSON to a NATS subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

func NewPublisher(conf NATS) (*Publisher, error) {
	conn, err := nats.Connect(conf.URL,
		nats.Name("alertboard"),
		nats.Timeout(natsConnectTimeout),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warning("disconnected from nats: %v", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("reconnected to nats at %s", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("error connecting to nats at %s: %v", conf.URL, err)
	}

	log.Info("publishing snapshots to nats subject %s", conf.Subject)

	return &Publisher{
		conn:    conn,
		subject: conf.Subject,
	}, nil
}

func (p *Publisher) Publish(snap *models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("error encoding snapshot %s: %v", snap.ID, err)
	}

	if err = p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("error publishing snapshot %s: %v", snap.ID, err)
	}

	log.Debug("published snapshot %s (%d bytes) to %s", snap.ID, len(data), p.subject)
	return nil
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Drain()
	}
}

package rpc

import (
	"net"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Client is the resource-manager side of the protocol: one connection, one
// outstanding request at a time. Not safe for concurrent use.
type Client struct {
	conn net.Conn
}

// Dial connects to a scheduler, retrying with exponential backoff so a client
// started slightly before its scheduler still comes up.
func Dial(addr string, maxWait time.Duration) (*Client, error) {
	var conn net.Conn
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxWait
	err := backoff.Retry(func() error {
		var err error
		conn, err = net.Dial("tcp", addr)
		if err != nil {
			log.WithFields(log.Fields{"addr": addr, "err": err}).Debug("Dial failed, retrying")
		}
		return err
	}, b)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %s", addr)
	}
	return &Client{conn: conn}, nil
}

// Call sends one request payload and blocks for the matching response.
func (c *Client) Call(payload []byte) ([]byte, error) {
	if err := writeFrame(c.conn, payload); err != nil {
		return nil, err
	}
	response, err := readFrame(c.conn)
	if err != nil {
		return nil, errors.Wrap(err, "reading response")
	}
	return response, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Package mqtt declares the outbound messaging port used to notify other
// systems about finished plans.
package mqtt

import "errors"

// ErrPublish is wrapped by publishers when a message could not be delivered
// after all retries.
var ErrPublish = errors.New("mqtt publish failed")

// Publisher sends a payload to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

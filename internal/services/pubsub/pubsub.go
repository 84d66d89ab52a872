// Package pubsub fans scene store updates out to websocket clients.
package pubsub

import (
	"sync"

	"github.com/lucsky/cuid"
)

// Topic represents a subscription topic.
type Topic string

const (
	TopicSceneUpdated        Topic = "SCENE_UPDATED"
	TopicSelectionChanged    Topic = "SELECTION_CHANGED"
	TopicColorChanged        Topic = "COLOR_CHANGED"
	TopicPresetsUpdated      Topic = "PRESETS_UPDATED"
	TopicDraftUpdated        Topic = "DRAFT_UPDATED"
	TopicChannelNamesUpdated Topic = "CHANNEL_NAMES_UPDATED"
	TopicDMXOutputSent       Topic = "DMX_OUTPUT_SENT"
)

// AllTopics lists every topic in publish order.
var AllTopics = []Topic{
	TopicSceneUpdated,
	TopicSelectionChanged,
	TopicColorChanged,
	TopicPresetsUpdated,
	TopicDraftUpdated,
	TopicChannelNamesUpdated,
	TopicDMXOutputSent,
}

// Message is what subscribers receive.
type Message struct {
	Topic Topic       `json:"topic"`
	Data  interface{} `json:"data"`
}

// Subscriber represents a subscription channel. Overflow is closed the
// first time a message is dropped because Channel was full.
type Subscriber struct {
	ID       string
	Topics   []Topic
	Channel  chan Message
	Overflow chan struct{}

	overflowOnce sync.Once
}

// PubSub manages subscriptions and message distribution.
type PubSub struct {
	mu          sync.RWMutex
	subscribers map[Topic][]*Subscriber
}

// New creates a new PubSub instance.
func New() *PubSub {
	return &PubSub{
		subscribers: make(map[Topic][]*Subscriber),
	}
}

// Subscribe creates one subscription covering topics. With no topics the
// subscriber receives everything.
func (ps *PubSub) Subscribe(bufferSize int, topics ...Topic) *Subscriber {
	if len(topics) == 0 {
		topics = AllTopics
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	sub := &Subscriber{
		ID:       cuid.New(),
		Topics:   append([]Topic(nil), topics...),
		Channel:  make(chan Message, bufferSize),
		Overflow: make(chan struct{}),
	}
	for _, topic := range sub.Topics {
		ps.subscribers[topic] = append(ps.subscribers[topic], sub)
	}
	return sub
}

// Unsubscribe removes a subscription and closes its channel.
func (ps *PubSub) Unsubscribe(sub *Subscriber) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	found := false
	for _, topic := range sub.Topics {
		subs := ps.subscribers[topic]
		for i, s := range subs {
			if s.ID == sub.ID {
				ps.subscribers[topic] = append(subs[:i:i], subs[i+1:]...)
				found = true
				break
			}
		}
	}
	if found {
		close(sub.Channel)
	}
}

// Publish sends a message to all subscribers of a topic. Subscribers whose
// buffer is full miss the message and have their Overflow closed.
func (ps *PubSub) Publish(topic Topic, data interface{}) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	msg := Message{Topic: topic, Data: data}
	for _, sub := range ps.subscribers[topic] {
		select {
		case sub.Channel <- msg:
		default:
			sub.overflowOnce.Do(func() { close(sub.Overflow) })
		}
	}
}

// SubscriberCount returns the number of subscribers for a topic.
func (ps *PubSub) SubscriberCount(topic Topic) int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.subscribers[topic])
}

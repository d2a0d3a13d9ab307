package logic

import (
	"fed_core/shared"
	"sync"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_notifier.go -package mocks fed_core/logic INotifier

const subscriberBufferSize = 32

type INotifier interface {
	// GroupSend delivers msg to every current subscriber of group without blocking.
	GroupSend(group string, msg any)
	// Subscribe returns a channel of the group's messages and a function that ends the subscription.
	Subscribe(group string) (<-chan any, func())
}

type notifier struct {
	logger shared.ILogger
	mu     sync.Mutex
	groups map[string]map[chan any]struct{}
}

func NewNotifier(logger shared.ILogger) INotifier {
	return &notifier{
		logger: logger,
		groups: map[string]map[chan any]struct{}{},
	}
}

func (n *notifier) GroupSend(group string, msg any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.groups[group] {
		select {
		case ch <- msg:
		default:
			n.logger.Warnf("Dropping message for slow subscriber of %s", group)
		}
	}
}

func (n *notifier) Subscribe(group string) (<-chan any, func()) {
	ch := make(chan any, subscriberBufferSize)
	n.mu.Lock()
	subs, ok := n.groups[group]
	if !ok {
		subs = map[chan any]struct{}{}
		n.groups[group] = subs
	}
	subs[ch] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.groups[group], ch)
			if len(n.groups[group]) == 0 {
				delete(n.groups, group)
			}
			close(ch)
		})
	}
	return ch, unsubscribe
}

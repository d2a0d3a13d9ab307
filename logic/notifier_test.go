package logic_test

import (
	"fed_core/logic"
	"fed_core/test"
	"fed_core/test/mocks"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"testing"
)

func setupNotifier(t *testing.T) logic.INotifier {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockILogger(ctrl)
	test.SetupDummyLogger(mockLogger)
	return logic.NewNotifier(mockLogger)
}

func Test_Notifier_GroupSend(t *testing.T) {

	n := setupNotifier(t)
	ch1, unsub1 := n.Subscribe("user.1.inbox")
	ch2, unsub2 := n.Subscribe("user.1.inbox")
	other, unsubOther := n.Subscribe("user.2.inbox")
	defer unsub1()
	defer unsub2()
	defer unsubOther()

	n.GroupSend("user.1.inbox", "hello")

	assert.Equal(t, "hello", <-ch1)
	assert.Equal(t, "hello", <-ch2)
	assert.Len(t, other, 0)
}

func Test_Notifier_Unsubscribe(t *testing.T) {

	n := setupNotifier(t)
	ch, unsub := n.Subscribe("user.1.inbox")
	unsub()
	unsub()

	_, open := <-ch
	assert.False(t, open)

	// Sending to a group without subscribers is fine
	n.GroupSend("user.1.inbox", "nobody listens")
}

func Test_Notifier_SlowSubscriberDoesNotBlock(t *testing.T) {

	n := setupNotifier(t)
	ch, unsub := n.Subscribe("user.1.inbox")
	defer unsub()

	for i := 0; i < 100; i++ {
		n.GroupSend("user.1.inbox", i)
	}
	assert.Equal(t, cap(ch), len(ch))
	assert.Equal(t, 0, <-ch)
}

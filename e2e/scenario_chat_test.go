package e2e

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type testChatSuite struct {
	BaseChatSuite
}

func TestChatSuite(t *testing.T) {
	suite.Run(t, &testChatSuite{})
}

func (s *testChatSuite) TestConversation() {
	alice := s.Connect("alice")
	defer alice.Client.Close()

	s.Run("Step 1: the newcomer is announced", func() {
		s.Expect(alice, "[Server] New connection from ")
	})

	s.Run("Step 2: rename is broadcast", func() {
		s.Send(alice, "name", "Alice")
		s.Expect(alice, "[Server] Anonymous renamed to Alice\n")
	})

	bob := s.Connect("bob")
	defer bob.Client.Close()

	s.Run("Step 3: both hear about bob", func() {
		s.Expect(alice, "[Server] New connection from ")
		s.Expect(bob, "[Server] New connection from ")
		s.Send(bob, "name", "Bob")
		s.Expect(alice, "[Server] Anonymous renamed to Bob\n")
		s.Expect(bob, "[Server] Anonymous renamed to Bob\n")
	})

	s.Run("Step 4: say reaches everybody including the sender", func() {
		s.Send(alice, "say", "hello bob")
		s.Expect(alice, "[Alice] hello bob\n")
		s.Expect(bob, "[Alice] hello bob\n")
	})

	s.Run("Step 5: an unknown verb only answers the sender", func() {
		s.Send(bob, "foo", "bar")
		s.Expect(bob, "Invalid command. Commands are:\nsay\nname\n")
		s.ExpectNothing(alice, 200*time.Millisecond)
	})

	s.Run("Step 6: leaving is announced to the others", func() {
		s.Require().NoError(bob.Client.Close())
		s.Expect(alice, "[Server] Bob left\n")
	})
}

func (s *testChatSuite) TestReservedName() {
	carol := s.Connect("carol")
	defer carol.Client.Close()
	s.Expect(carol, "[Server] New connection from ")

	s.Send(carol, "name", "Server")
	s.Send(carol, "say", "still anonymous")
	s.Expect(carol, "[Anonymous] still anonymous\n")
}

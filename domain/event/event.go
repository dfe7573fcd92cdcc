// Package event defines the observable facts emitted by the chat server.
// Events are consumed by sinks (logging, stats); they never drive the data
// path itself, so losing one is acceptable.
package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	ConnectionAcceptedType Type = "CONNECTION_ACCEPTED"
	UserJoinedType         Type = "USER_JOINED"
	UserRejectedType       Type = "USER_REJECTED"
	MessageRelayedType     Type = "MESSAGE_RELAYED"
	DeliveryFailedType     Type = "DELIVERY_FAILED"
	UserLeftType           Type = "USER_LEFT"
	WordsCensoredType      Type = "WORDS_CENSORED"
)

type ServerEvent interface {
	Type() Type
}

// ConnectionAccepted is emitted for every accept, including connections
// later rejected by the capacity gate.
type ConnectionAccepted struct {
	ConnID     uuid.UUID
	RemoteAddr string
	At         time.Time
}

func (ConnectionAccepted) Type() Type { return ConnectionAcceptedType }

// UserJoined is emitted once a connection has completed the handshake and
// been admitted to the registry.
type UserJoined struct {
	ConnID   uuid.UUID
	Username string
	Members  int
	At       time.Time
}

func (UserJoined) Type() Type { return UserJoinedType }

// UserRejected is emitted when the capacity gate turns a connection away.
type UserRejected struct {
	ConnID     uuid.UUID
	RemoteAddr string
	Members    int
	At         time.Time
}

func (UserRejected) Type() Type { return UserRejectedType }

type MessageRelayed struct {
	ConnID     uuid.UUID
	Username   string
	Recipients int
	At         time.Time
}

func (MessageRelayed) Type() Type { return MessageRelayedType }

// DeliveryFailed records a write error to one recipient during a fan-out.
// The fan-out itself keeps going; the failed recipient gets disconnected.
type DeliveryFailed struct {
	ConnID   uuid.UUID
	Username string
	Reason   string
	At       time.Time
}

func (DeliveryFailed) Type() Type { return DeliveryFailedType }

// UserLeft is emitted exactly once per member that completed the handshake
// and later disconnected, whatever the cause.
type UserLeft struct {
	ConnID   uuid.UUID
	Username string
	Members  int
	At       time.Time
}

func (UserLeft) Type() Type { return UserLeftType }

type WordsCensored struct {
	ConnID   uuid.UUID
	Username string
	Words    []string
	At       time.Time
}

func (WordsCensored) Type() Type { return WordsCensoredType }

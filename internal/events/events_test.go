package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNATSPublisherSubject(t *testing.T) {
	publisher := NewNATSPublisher(nil, " inzone.dev. ")
	require.Equal(t, "inzone.dev.studentanswer.created", publisher.Subject(Event{Model: "StudentAnswer", Action: "created"}))

	fallback := NewNATSPublisher(nil, "")
	require.Equal(t, "inzone.course.deleted", fallback.Subject(Event{Model: "Course", Action: "deleted"}))
}

func TestNATSPublisherHonoursCancelledContext(t *testing.T) {
	publisher := NewNATSPublisher(nil, "inzone")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, publisher.Publish(ctx, Event{Model: "Course", Action: "created"}), context.Canceled)
}

func TestNopPublisher(t *testing.T) {
	require.NoError(t, Nop{}.Publish(context.Background(), Event{}))
}

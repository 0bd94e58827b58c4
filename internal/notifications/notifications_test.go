package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	"github.com/SscSPs/reverse_auction_app/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() domain.DisplacementEvent {
	return domain.DisplacementEvent{
		EventID:           "evt-1",
		ExchangeID:        "ex-1",
		ExchangeName:      "Hamburg pallets",
		Deadline:          time.Date(2026, time.March, 2, 14, 30, 0, 0, time.UTC),
		Target:            domain.ExchangeTarget("ex-1"),
		DisplacedBidderID: "bidder-a",
		DisplacedEmail:    "a@example.com",
		NewLeaderID:       "bidder-b",
		NewRank:           2,
		NewRankOrLabel:    "2",
		OccurredAt:        time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestOutbidMessage(t *testing.T) {
	msg := OutbidMessage(sampleEvent())

	assert.Equal(t, "evt-1", msg.ID)
	assert.Equal(t, Outbid, msg.Type)
	assert.Equal(t, []string{"a@example.com"}, msg.To)
	assert.Contains(t, msg.Subject, "Hamburg pallets")
	assert.Contains(t, msg.Body, "2026-03-02 14:30")
	assert.Contains(t, msg.Body, "Your current position: 2.")
	assert.Equal(t, "2", msg.Variables["rank"])
}

func TestOutbidMessage_NoEmailLeavesRecipientsEmpty(t *testing.T) {
	event := sampleEvent()
	event.DisplacedEmail = ""
	assert.Empty(t, OutbidMessage(event).To)
}

func TestInvitationMessage_UsesBlindCopies(t *testing.T) {
	inv := domain.Invitation{
		ExchangeID: "ex-1",
		Subject:    "Invitation to exchange: Hamburg pallets",
		Body:       "body",
		Recipients: []string{"a@example.com", "b@example.com"},
	}
	msg := InvitationMessage("id-1", inv, time.Unix(0, 0))

	assert.Empty(t, msg.To)
	assert.Equal(t, inv.Recipients, msg.Bcc)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"INVITATION"`)
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "mail.outbid", routingKey("mail", Outbid))
	assert.Equal(t, "mail.invitation", routingKey("mail", Invitation))
}

func TestLogDispatcher_LogsAndNeverFails(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	d := NewLogDispatcher(logger)

	require.NoError(t, d.DispatchDisplacement(context.Background(), sampleEvent()))
	require.NoError(t, d.DispatchInvitation(context.Background(), domain.Invitation{ExchangeID: "ex-1", Recipients: []string{"x@example.com"}}))

	out := buf.String()
	assert.Equal(t, 4, strings.Count(out, "\n"))
	assert.Contains(t, out, `"type":"OUTBID"`)
	assert.Contains(t, out, `"type":"INVITATION"`)
	assert.Contains(t, out, `"bcc_count":1`)
}

func TestNewDispatcher(t *testing.T) {
	d, closer, err := NewDispatcher(&config.Config{NotifyProvider: config.NotifyLog}, nil)
	require.NoError(t, err)
	assert.IsType(t, &LogDispatcher{}, d)
	assert.NoError(t, closer.Close())

	_, _, err = NewDispatcher(&config.Config{NotifyProvider: "carrier-pigeon"}, nil)
	assert.Error(t, err)
}

package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/LiSiruiRay/hacktech/internal/model"
)

func TestTacticalSignals(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"1. Buy more AAPL\n2. Take profits on TSLA\n3. Consider energy sector",
	}}

	events := []model.Event{
		{Topic: "Fed Policy", Summary: "The Fed raised rates."},
		{Topic: "Oil Supply", Summary: "OPEC cut output."},
	}

	signals, err := TacticalSignals(context.Background(), client, events)

	assert.Equal(t, nil, err)
	assert.Equal(t, true, strings.Contains(signals, "Buy more AAPL"))

	if !strings.Contains(client.users[0], "Topic: Fed Policy") {
		t.Errorf("advisor prompt missing topic block: %q", client.users[0])
	}
	if !strings.Contains(client.users[0], "Summary: OPEC cut output.") {
		t.Errorf("advisor prompt missing summary block: %q", client.users[0])
	}
}

func TestTacticalSignalsProviderError(t *testing.T) {
	client := &scriptedClient{
		responses: []string{""},
		errs:      []error{errors.New("down")},
	}

	_, err := TacticalSignals(context.Background(), client, nil)
	assert.NotEqual(t, nil, err)
}

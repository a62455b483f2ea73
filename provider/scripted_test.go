package provider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attiklabs/recall/core"
	"github.com/attiklabs/recall/provider"
)

func TestScripted_PopsInOrder(t *testing.T) {
	s := provider.NewScripted(
		&provider.Response{Text: "first"},
		&provider.Response{Text: "second"},
	)

	resp, err := s.Generate(context.Background(), &provider.Request{})
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Text)

	resp, err = s.Generate(context.Background(), &provider.Request{})
	require.NoError(t, err)
	assert.Equal(t, "second", resp.Text)

	_, err = s.Generate(context.Background(), &provider.Request{})
	assert.Error(t, err)
}

func TestScripted_RecordsRequests(t *testing.T) {
	s := provider.NewScripted(&provider.Response{Text: "ok"})

	req := &provider.Request{
		Model:    "test-model",
		System:   "be helpful",
		Messages: []core.Message{core.NewUserMessage("hi")},
	}
	_, err := s.Generate(context.Background(), req)
	require.NoError(t, err)

	reqs := s.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "test-model", reqs[0].Model)
	assert.Equal(t, "be helpful", reqs[0].System)
}

func TestScripted_FailWith(t *testing.T) {
	wantErr := errors.New("simulated outage")
	s := provider.NewScripted(&provider.Response{Text: "never reached"}).FailWith(wantErr)

	_, err := s.Generate(context.Background(), &provider.Request{})
	assert.ErrorIs(t, err, wantErr)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := provider.New("notreal", "")
	assert.Error(t, err)
}

package trend

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	youtube "github.com/rubpy/crawly-search-youtube"
)

type fakeSearcher struct {
	ids   []string
	err   error
	calls int
}

func (s *fakeSearcher) Search(ctx context.Context, terms string, limit int, opts *youtube.SearchOptions) (*youtube.SearchResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}

	res := &youtube.SearchResult{}
	b, _ := json.Marshal(s.ids)
	if err := json.Unmarshal(b, &res.UniqueChannelIDs); err != nil {
		return nil, err
	}

	return res, nil
}

type fakeLookup struct {
	subscribers map[string]string
	failing     map[string]bool
	empty       map[string]bool
	calls       atomic.Int32
}

func (l *fakeLookup) ChannelInfo(ctx context.Context, channelID string) (*youtube.ChannelInfo, error) {
	l.calls.Add(1)
	if l.failing[channelID] {
		return nil, errors.New("lookup failed")
	}
	if l.empty[channelID] {
		return nil, nil
	}

	return &youtube.ChannelInfo{
		ID:          channelID,
		Name:        "name-" + channelID,
		Subscribers: youtube.Subscribers{Text: l.subscribers[channelID]},
	}, nil
}

func TestRun(t *testing.T) {
	s := &fakeSearcher{ids: []string{"UCaaaaaa", "UCbbbbbb", "UCcccccc", "UCdddddd"}}
	l := &fakeLookup{
		subscribers: map[string]string{
			"UCaaaaaa": "구독자 1.5만명",
			"UCbbbbbb": "2,300",
			"UCcccccc": "1.2M subscribers",
			"UCdddddd": "",
		},
	}

	report, err := Run(context.Background(), s, l, "방탄", 20, WithConcurrency(2), WithRate(rate.Inf, 1))
	require.NoError(t, err)

	assert.Equal(t, 1, s.calls)
	assert.EqualValues(t, 4, l.calls.Load())
	assert.Equal(t, "방탄", report.Terms)
	assert.Empty(t, report.Failed)

	var order []string
	for _, ch := range report.Channels {
		order = append(order, ch.ID)
	}
	assert.Equal(t, []string{"UCcccccc", "UCaaaaaa", "UCbbbbbb", "UCdddddd"}, order)
	assert.Equal(t, 15000.0, report.Channels[1].SubscriberCount)
}

func TestRun_FailedLookups(t *testing.T) {
	s := &fakeSearcher{ids: []string{"UCaaaaaa", "UCbbbbbb"}}
	l := &fakeLookup{
		subscribers: map[string]string{"UCaaaaaa": "10"},
		failing:     map[string]bool{"UCbbbbbb": true},
	}

	t.Run("lenient", func(t *testing.T) {
		report, err := Run(context.Background(), s, l, "x", 0)
		require.NoError(t, err)
		require.Len(t, report.Channels, 1)
		assert.Contains(t, report.Failed, "UCbbbbbb")
	})

	t.Run("strict", func(t *testing.T) {
		_, err := Run(context.Background(), s, l, "x", 0, WithStrict())
		assert.Error(t, err)
	})
}

func TestRun_EmptyLookup(t *testing.T) {
	s := &fakeSearcher{ids: []string{"UCaaaaaa", "UCbbbbbb"}}
	l := &fakeLookup{
		subscribers: map[string]string{"UCaaaaaa": "10"},
		empty:       map[string]bool{"UCbbbbbb": true},
	}

	report, err := Run(context.Background(), s, l, "x", 0)
	require.NoError(t, err)
	require.Len(t, report.Channels, 1)
	assert.Equal(t, "UCaaaaaa", report.Channels[0].ID)
	assert.ErrorIs(t, report.Failed["UCbbbbbb"], NilLookupInfo)

	_, err = Run(context.Background(), s, l, "x", 0, WithStrict())
	assert.ErrorIs(t, err, NilLookupInfo)
}

func TestRun_SearchError(t *testing.T) {
	boom := errors.New("boom")
	l := &fakeLookup{}

	_, err := Run(context.Background(), &fakeSearcher{err: boom}, l, "x", 0)
	assert.ErrorIs(t, err, boom)
	assert.EqualValues(t, 0, l.calls.Load())

	_, err = Run(context.Background(), nil, l, "x", 0)
	assert.ErrorIs(t, err, NilSearcher)

	_, err = Run(context.Background(), &fakeSearcher{}, nil, "x", 0)
	assert.ErrorIs(t, err, NilLookup)
}

func TestParseSubscribers(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"", 0},
		{"no digits", 0},
		{"1,234", 1234},
		{"구독자 12.3만명", 123000},
		{"3.5천", 3500},
		{"1억", 100000000},
		{"12.5K subscribers", 12500},
		{"1.2M subscribers", 1200000},
		{"2B", 2000000000},
		{"987 subscribers", 987},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseSubscribers(tt.text), 0.001)
		})
	}
}

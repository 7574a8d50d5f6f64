package hosttest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/miniapp/backend/internal/providers/host"
)

func TestMockSystemQuerier(t *testing.T) {
	q := &MockSystemQuerier{}
	q.On("SystemInfo", mock.Anything).Return(&host.SystemInfo{Platform: "ios"}, nil).Once()
	q.On("SystemInfo", mock.Anything).Return(nil, errors.New("down")).Once()

	info, err := q.SystemInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ios", info.Platform)

	_, err = q.SystemInfo(context.Background())
	assert.EqualError(t, err, "down")
	q.AssertExpectations(t)
}

func TestMockNetworkHooks(t *testing.T) {
	n := &MockNetwork{}
	n.On("Request", mock.MatchedBy(func(o host.RequestOption) bool { return o.URL == "/ok" })).
		Run(Respond(200, `{}`)).Return(nil)
	n.On("Request", mock.MatchedBy(func(o host.RequestOption) bool { return o.URL == "/fail" })).
		Run(FailWith(errors.New("offline"))).Return(nil)

	var status int
	n.Request(host.RequestOption{URL: "/ok", Success: func(r *host.RequestResult) { status = r.StatusCode }})
	assert.Equal(t, 200, status)

	var failure error
	task := n.Request(host.RequestOption{URL: "/fail", Fail: func(err error) { failure = err }})
	assert.EqualError(t, failure, "offline")

	task.Abort()
	n.AssertNumberOfCalls(t, "Request", 2)
}

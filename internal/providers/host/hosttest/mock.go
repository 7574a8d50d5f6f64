// Package hosttest provides testify mocks of the host platform interfaces.
package hosttest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/GriffinCanCode/miniapp/backend/internal/providers/host"
)

// MockSystemQuerier is a mock implementation of host.SystemQuerier.
type MockSystemQuerier struct {
	mock.Mock
}

// SystemInfo mocks the SystemInfo method.
func (m *MockSystemQuerier) SystemInfo(ctx context.Context) (*host.SystemInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*host.SystemInfo), args.Error(1)
}

// MockNetwork is a mock implementation of host.Network. The recorded
// RequestOption carries the Success and Fail callbacks, so a test can settle
// the call from a Run hook or later.
type MockNetwork struct {
	mock.Mock
}

// Request mocks the Request method.
func (m *MockNetwork) Request(opt host.RequestOption) host.RequestTask {
	args := m.Called(opt)
	if task, ok := args.Get(0).(host.RequestTask); ok {
		return task
	}
	return &MockTask{}
}

// MockTask is a mock implementation of host.RequestTask.
type MockTask struct {
	mock.Mock
}

// Abort mocks the Abort method.
func (m *MockTask) Abort() {
	if len(m.ExpectedCalls) == 0 {
		return
	}
	m.Called()
}

// Respond returns a Run hook that answers with status and body.
func Respond(status int, body string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		opt := args.Get(0).(host.RequestOption)
		opt.Success(&host.RequestResult{StatusCode: status, Data: []byte(body)})
	}
}

// FailWith returns a Run hook that fails the call with err.
func FailWith(err error) func(mock.Arguments) {
	return func(args mock.Arguments) {
		args.Get(0).(host.RequestOption).Fail(err)
	}
}

package registry

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockIndex struct {
	mock.Mock
}

func (_m *MockIndex) Versions(ctx context.Context, pkg string) ([]string, error) {
	ret := _m.Called(ctx, pkg)
	ret0 := ret.Get(0)
	if ret0 == nil {
		return nil, ret.Error(1)
	}
	r, ok := ret0.([]string)
	if !ok {
		return nil, ret.Error(1)
	}
	return r, ret.Error(1)
}

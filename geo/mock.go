package geo

import (
	"github.com/stretchr/testify/mock"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Reverse(lat, lon float64) (*Result, error) {
	args := m.Mock.Called(lat, lon)

	if v := args.Get(0); v != nil {
		return v.(*Result), args.Error(1)
	}

	return nil, args.Error(1)
}

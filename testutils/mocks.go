package testutils

import (
	"github.com/stretchr/testify/mock"
)

type MockMailService struct {
	mock.Mock
}

func (m *MockMailService) SendTemplate(templateName string, to []string, subject string, data map[string]any) error {
	args := m.Called(templateName, to, subject, data)
	return args.Error(0)
}

// SentData returns the template data of the last call for templateName.
func (m *MockMailService) SentData(templateName string) map[string]any {
	for i := len(m.Calls) - 1; i >= 0; i-- {
		call := m.Calls[i]
		if call.Method == "SendTemplate" && call.Arguments.String(0) == templateName {
			data, _ := call.Arguments.Get(3).(map[string]any)
			return data
		}
	}
	return nil
}

package middleware

import "sync"

var _ adminTokenValidator = &adminTokenValidatorMock{}

type adminTokenValidatorMock struct {
	ValidateAdminTokenFunc func(token string) (string, error)

	calls struct {
		ValidateAdminToken []struct {
			Token string
		}
	}
	lockValidateAdminToken sync.RWMutex
}

func (mock *adminTokenValidatorMock) ValidateAdminToken(token string) (string, error) {
	if mock.ValidateAdminTokenFunc == nil {
		panic("adminTokenValidatorMock.ValidateAdminTokenFunc: method is nil but adminTokenValidator.ValidateAdminToken was just called")
	}
	callInfo := struct {
		Token string
	}{Token: token}
	mock.lockValidateAdminToken.Lock()
	mock.calls.ValidateAdminToken = append(mock.calls.ValidateAdminToken, callInfo)
	mock.lockValidateAdminToken.Unlock()
	return mock.ValidateAdminTokenFunc(token)
}

func (mock *adminTokenValidatorMock) ValidateAdminTokenCalls() []struct {
	Token string
} {
	mock.lockValidateAdminToken.RLock()
	calls := mock.calls.ValidateAdminToken
	mock.lockValidateAdminToken.RUnlock()
	return calls
}

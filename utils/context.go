package utils

// CtxKey is the type for request-scoped context keys.
type CtxKey string

// Context keys propagated from the HTTP layer into business flows.
const (
	RequestIDKey  CtxKey = "request_id"
	UserAgentKey  CtxKey = "user_agent"
	IPAddressKey  CtxKey = "ip_address"
	EndpointKey   CtxKey = "endpoint"
	TimeoutKey    CtxKey = "timeout"
	CancelFuncKey CtxKey = "cancel_func"
)

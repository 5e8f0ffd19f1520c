package service

import "github.com/Suhaibinator/SLayer/pkg/common"

// RequestInfo reads what layers and adapters need from a backend request
// without consuming it.
type RequestInfo[Req any] interface {
	// Path returns the stable identifying string of the request.
	Path(req Req) string
	Method(req Req) string
	// Header returns the first value of the named request header.
	Header(req Req, name string) string
	RemoteAddr(req Req) string
}

// ResponseInfo inspects and builds backend responses.
type ResponseInfo[Res any] interface {
	StatusCode(res Res) int
	SetHeader(res Res, name, value string)
	// ErrorResponse builds the response describing a failure while handling
	// the request identified by path. It is the only way failures become
	// observable output.
	ErrorResponse(path string, err *common.ServiceError) Res
}

// Backend bundles the request and response capabilities of one backend.
type Backend[Req, Res any] interface {
	RequestInfo[Req]
	ResponseInfo[Res]
}

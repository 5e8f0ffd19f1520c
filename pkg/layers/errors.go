package layers

import (
	"net/http"

	"github.com/Suhaibinator/SLayer/pkg/common"
)

func serviceErrorFromPanic(rec any) *common.ServiceError {
	return common.ServiceErrorFromPanic(rec)
}

func timeoutError() *common.ServiceError {
	return common.NewServiceError(common.NewHTTPError(http.StatusRequestTimeout, "Request Timeout"))
}

func unauthorizedError() *common.ServiceError {
	return common.NewServiceError(common.NewHTTPError(http.StatusUnauthorized, "Unauthorized"))
}

func unavailableError() *common.ServiceError {
	return common.NewServiceError(common.NewHTTPError(http.StatusServiceUnavailable, "Service Unavailable"))
}

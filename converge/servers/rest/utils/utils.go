// Package utils provides helpers for writing status server responses.
package utils

import (
	"encoding/json"
	"net/http"

	"github.com/praekeltfoundation/puppet-gluster/pkg/api"

	log "github.com/sirupsen/logrus"
)

// SendHTTPResponse writes rsp as JSON with the given status code.
func SendHTTPResponse(w http.ResponseWriter, statusCode int, rsp interface{}) {
	if rsp != nil {
		// Do not include content-type header for responses such as 204
		// which as per RFC, should not have a response body.
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	}
	// Maintain the order of these calls that modify http.ResponseWriter
	// object.
	w.WriteHeader(statusCode)
	if rsp != nil {
		if e := json.NewEncoder(w).Encode(rsp); e != nil {
			log.WithError(e).Error("Failed to send the response")
		}
	}
}

// SendHTTPError reports a single error back to the client.
func SendHTTPError(w http.ResponseWriter, statusCode int, errMsg string, errCode api.ErrorCode) {
	if errMsg == "" {
		errMsg = api.ErrorCodeMap[errCode]
	}
	SendHTTPResponse(w, statusCode, api.ErrorResp{
		Errors: []api.HTTPError{{Code: errCode, Message: errMsg}},
	})
}

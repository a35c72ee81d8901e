package rest

import (
	"net/http"

	restutils "github.com/praekeltfoundation/puppet-gluster/converge/servers/rest/utils"
	"github.com/praekeltfoundation/puppet-gluster/pkg/api"
	"github.com/praekeltfoundation/puppet-gluster/version"
)

func (s *Server) reportHandler(w http.ResponseWriter, r *http.Request) {
	report, err := s.reports.LastReport()
	if report == nil {
		if err != nil {
			restutils.SendHTTPError(w, http.StatusServiceUnavailable, err.Error(), api.ErrCodeManifest)
			return
		}
		restutils.SendHTTPError(w, http.StatusNotFound, "", api.ErrCodeNoReport)
		return
	}
	restutils.SendHTTPResponse(w, http.StatusOK, report)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	report, err := s.reports.LastReport()
	resp := api.HealthResp{Status: "ok"}
	status := http.StatusOK

	if report != nil {
		resp.LastPass = report.ID
		resp.LastFailed = report.Failed()
	}
	switch {
	case err != nil:
		resp.Status = "error"
		resp.Error = err.Error()
		status = http.StatusServiceUnavailable
	case report == nil:
		resp.Status = "pending"
	case resp.LastFailed:
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	restutils.SendHTTPResponse(w, status, resp)
}

func (s *Server) versionHandler(w http.ResponseWriter, r *http.Request) {
	restutils.SendHTTPResponse(w, http.StatusOK, version.Info())
}

func (s *Server) listEndpointsHandler(w http.ResponseWriter, r *http.Request) {
	resp := make(api.ListEndpointsResp, 0, len(s.AllRoutes))
	for _, rt := range s.AllRoutes {
		resp = append(resp, api.Endpoint{
			Name:        rt.Name,
			Description: rt.Description,
			Method:      rt.Method,
			Path:        rt.Pattern,
		})
	}
	restutils.SendHTTPResponse(w, http.StatusOK, resp)
}

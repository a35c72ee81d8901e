// Package servers implements a github.com/thejerf/suture supervisor managing
// the converge agent and its status server.
package servers

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/thejerf/suture/v4"
)

// New returns a Supervisor managing the given services.
func New(name string, services ...suture.Service) *suture.Supervisor {
	s := suture.New(name, suture.Spec{
		EventHook: func(e suture.Event) {
			log.WithField("supervisor", name).WithFields(log.Fields(e.Map())).Warn(e.String())
		},
		Timeout: 5 * time.Second,
	})
	for _, svc := range services {
		s.Add(svc)
	}
	return s
}

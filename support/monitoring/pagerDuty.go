package monitoring

import (
	"fmt"

	"github.com/PagerDuty/go-pagerduty"
	"github.com/quantadex/crossmarket/api"
)

// pagerDuty provides a simple struct that implements the Alert interface
type pagerDuty struct {
	serviceKey string
}

// ensure pagerDuty implements the Alert interface
var _ api.Alert = &pagerDuty{}

func makePagerDuty(serviceKey string) (api.Alert, error) {
	return &pagerDuty{
		serviceKey: serviceKey,
	}, nil
}

// Trigger creates a PagerDuty trigger event with the provided description and details
func (p *pagerDuty) Trigger(description string, details interface{}) error {
	event := pagerduty.Event{
		ServiceKey:  p.serviceKey,
		Type:        "trigger",
		Description: description,
		Details:     details,
	}
	resp, e := pagerduty.CreateEvent(event)
	if e != nil {
		return fmt.Errorf("could not create event on PagerDuty: %s", e)
	}
	fmt.Printf("triggered event on PagerDuty, incident key: %s\n", resp.IncidentKey)
	return nil
}

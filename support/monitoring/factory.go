package monitoring

import (
	"fmt"

	"github.com/quantadex/crossmarket/api"
)

// MakeAlert creates an alert from the given type
func MakeAlert(alertType string, apiKey string) (api.Alert, error) {
	switch alertType {
	case "PagerDuty":
		return makePagerDuty(apiKey)
	default:
		return nil, fmt.Errorf("the alert type '%s' is not supported", alertType)
	}
}

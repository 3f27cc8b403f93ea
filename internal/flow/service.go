package flow

import (
	"strings"

	"github.com/nexadigital/nexa-api/internal/i18n"
)

// Service is one of the agency's offerings a project request can target
type Service string

const (
	ServiceWebsite Service = "website"
	ServiceMobile  Service = "mobile"
	ServiceIoT     Service = "iot"
	ServiceML      Service = "ml"
	ServiceUIUX    Service = "uiux"
	ServiceOther   Service = "other"
)

// Services lists the offerings in display order
var Services = []Service{ServiceWebsite, ServiceMobile, ServiceIoT, ServiceML, ServiceUIUX, ServiceOther}

var serviceLabels = map[Service]string{
	ServiceWebsite: "Website",
	ServiceMobile:  "Mobile App",
	ServiceIoT:     "IoT",
	ServiceML:      "Machine Learning",
	ServiceUIUX:    "UI/UX Design",
}

// ParseService accepts the canonical id in any case
func ParseService(s string) (Service, error) {
	svc := Service(strings.ToLower(strings.TrimSpace(s)))
	if !svc.Valid() {
		return "", ErrUnknownService
	}
	return svc, nil
}

// Valid reports whether s is a known service
func (s Service) Valid() bool {
	for _, known := range Services {
		if s == known {
			return true
		}
	}
	return false
}

// Label is the human-readable service name; only "other" is translated
func (s Service) Label(lang i18n.Lang) string {
	if s == ServiceOther {
		if lang == i18n.EN {
			return "Other"
		}
		return "Lainnya"
	}
	return serviceLabels[s]
}
